package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/osmike/walker"
	"github.com/osmike/walker/internal/config"
	"github.com/osmike/walker/internal/picker"
	prommon "github.com/osmike/walker/monitoring/prometheus"
	"github.com/osmike/walker/monitoring/sqlite"
)

const shutdownTimeout = 5 * time.Second

var runFlags struct {
	dir         string
	every       string
	pattern     string
	progress    bool
	metricsAddr string
	historyDB   string
	interactive bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a walk and print each visited file",
	Long: "Start a walk over --dir, printing one file every --every until interrupted.\n" +
		"With --interactive, stdin accepts n (next now), r (reset timer) and q (stop).",
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.dir, "dir", "", "Directory to walk")
	f.StringVar(&runFlags.every, "every", "", `Interval between steps: a duration ("30s") or "@every 30s"`)
	f.StringVar(&runFlags.pattern, "pattern", "", `File name pattern ("*.md")`)
	f.BoolVar(&runFlags.progress, "progress", false, "Prefix each file with its position in the cycle")
	f.StringVar(&runFlags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	f.StringVar(&runFlags.historyDB, "history-db", "", "Record steps in this SQLite database")
	f.BoolVar(&runFlags.interactive, "interactive", false, "Read n/r/q commands from stdin")
}

// walkParams is the host part of a walk configuration.
type walkParams struct {
	ShowProgress bool
}

type walkConfig = walker.Walk[walkParams]

// loadRunConfig reads the config file and overlays the flags that were set.
func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(rootFlags.config)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = runFlags.dir
	}
	if flags.Changed("every") {
		cfg.Every = runFlags.every
	}
	if flags.Changed("pattern") {
		cfg.Pattern = runFlags.pattern
	}
	if flags.Changed("progress") {
		cfg.ShowProgress = runFlags.progress
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = runFlags.metricsAddr
	}
	if flags.Changed("history-db") {
		cfg.HistoryDB = runFlags.historyDB
	}
	if rootFlags.logFormat != "" {
		cfg.LogFormat = rootFlags.logFormat
	}

	return cfg, cfg.Validate()
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	pick, err := picker.New(cfg.Dir, cfg.Pattern)
	if err != nil {
		return err
	}

	r := &runner{
		out:  cmd.OutOrStdout(),
		pick: pick,
		idle: make(chan struct{}, 1),
	}

	var (
		mons []walker.Monitoring
		reg  *prometheus.Registry
	)
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if r.prom, err = prommon.New(reg); err != nil {
			return err
		}
		mons = append(mons, r.prom)
	}
	if cfg.HistoryDB != "" {
		h, err := sqlite.Open(cfg.HistoryDB, log)
		if err != nil {
			return err
		}
		defer h.Close()
		mons = append(mons, h)
	}

	s, err := walker.New(ctx, walker.Options[walkConfig]{
		Step:          r.step,
		OnStateChange: r.observe,
		Logger:        log,
	}, walker.Tee(mons...))
	if err != nil {
		return err
	}
	defer s.Close()

	var commands <-chan string
	if runFlags.interactive {
		commands = readCommands(ctx, cmd.InOrStdin())
	}

	walk := walkConfig{Every: cfg.Interval(), Params: walkParams{ShowProgress: cfg.ShowProgress}}
	if err := s.Start(walk); err != nil {
		return err
	}
	log.Info("walk started",
		zap.String("dir", cfg.Dir),
		zap.Duration("every", walk.Every),
		zap.String("pattern", cfg.Pattern),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return r.wait(gctx, s, commands)
	})
	if reg != nil {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           newRouter(reg, s),
			ReadHeaderTimeout: shutdownTimeout,
		}
		g.Go(func() error {
			log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	if err != nil {
		log.Warn("walk ended", zap.Error(err))
	} else {
		log.Info("walk ended")
	}
	return err
}

// newRouter serves /metrics from reg and a liveness probe reporting whether s is walking.
func newRouter(reg *prometheus.Registry, s *walker.Scheduler[walkConfig]) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if s.IsActive() {
			_, _ = io.WriteString(w, "walking\n")
			return
		}
		_, _ = io.WriteString(w, "idle\n")
	})
	return r
}

// runner holds the host side of a walk: the step, the observer and the wait loop.
type runner struct {
	out  io.Writer
	pick *picker.Picker
	prom *prommon.Monitoring
	idle chan struct{}

	mu  sync.Mutex
	err error
}

func (r *runner) step(_ context.Context, cfg walkConfig) error {
	p, err := r.pick.Next()
	if err != nil {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg.Params.ShowProgress {
		fmt.Fprintf(r.out, "[%d/%d] %s\n", p.Index, p.Total, p.Path)
	} else {
		fmt.Fprintln(r.out, p.Path)
	}
	return nil
}

func (r *runner) observe(active bool, _ walkConfig) {
	if r.prom != nil {
		r.prom.ObserveState(active)
	}
	if !active {
		select {
		case r.idle <- struct{}{}:
		default:
		}
	}
}

// wait blocks until the walk ends or ctx is done, applying interactive commands
// meanwhile. It returns the step error that ended the walk, if any.
func (r *runner) wait(ctx context.Context, s *walker.Scheduler[walkConfig], commands <-chan string) error {
	quit := false
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return nil
		case <-r.idle:
			// ForceNext also reports idle before the walk restarts.
			if s.IsActive() {
				continue
			}
			if quit {
				return nil
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			return r.err
		case c, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			switch c {
			case "n", "next":
				s.ForceNext()
			case "r", "reset":
				s.ResetTimer()
			case "q", "quit", "stop":
				quit = true
				s.Stop()
			}
		}
	}
}

// readCommands forwards trimmed lines from in until EOF or until ctx is done.
// A read already blocked on in is not interrupted.
func readCommands(ctx context.Context, in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- strings.ToLower(strings.TrimSpace(sc.Text())):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
