// Command ranim runs a sketch headless and logs its progress.
//
// Flag defaults are read from RANIM_* environment variables, which may be
// set in a .env file in the working directory. LOG_LEVEL and LOG_FORMAT
// control logging.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"dasa.cc/ranim/sketch"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	l := setupLogger()

	var (
		flagSketch  = flag.String("sketch", env("RANIM_SKETCH", "growth"), fmt.Sprintf("sketch to run, one of %v", names()))
		flagN       = flag.Int("n", envInt("RANIM_STEPS", 1000), "number of steps; 0 runs until interrupted")
		flagSeed    = flag.Uint64("seed", uint64(envInt("RANIM_SEED", 0)), "random seed")
		flagWorkers = flag.Int("workers", envInt("RANIM_WORKERS", 1), "goroutines relaxing the growth ring")
		flagEvery   = flag.Int("every", envInt("RANIM_SUMMARY_EVERY", 100), "log a debug summary every n steps")
		flagReset   = flag.Int("reset-every", envInt("RANIM_RESET_EVERY", 0), "reset the sketch every n steps; 0 never resets")
	)
	flag.Parse()

	p := params{seed: *flagSeed, workers: *flagWorkers}
	if err := run(l, *flagSketch, *flagN, p, *flagEvery, *flagReset); err != nil {
		l.Error("ranim_failed", "err", err)
		os.Exit(1)
	}
}

func run(l *slog.Logger, name string, n int, p params, every, resetEvery int) error {
	s, err := newSketch(name, p)
	if err != nil {
		return err
	}
	l = l.With("sketch", name, "seed", p.seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := monitor(ctx, l, uint64(max(n, 0)))
	r, err := sketch.Run(ctx, s, n,
		sketch.WithLogger(l),
		sketch.WithSummaryEvery(every),
		sketch.WithResetEvery(resetEvery),
		sketch.WithProgress(progress),
	)
	l.Info("ranim_summary", append([]any{"report", r}, s.Summary()...)...)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// monitor logs progress toward total once a second until ctx is done or the
// returned counter reaches total. A zero total logs the step rate only.
func monitor(ctx context.Context, l *slog.Logger, total uint64) *uint64 {
	progress := new(uint64)
	epoch := time.Now()
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
			done := atomic.LoadUint64(progress)
			since := time.Since(epoch)
			if total == 0 {
				l.Info("progress", "steps", done, "rate", float64(done)/since.Seconds())
				continue
			}
			complete := float64(done) / float64(total)
			if complete == 0 {
				continue
			}
			estimate := time.Duration(1 / complete * float64(since))
			l.Info("progress", "percent", int(complete*100), "remaining", (estimate - since).Round(time.Millisecond))
			if done >= total {
				return
			}
		}
	}()
	return progress
}

func setupLogger() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

func env(key, def string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return def
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("ignoring invalid environment value", "key", key, "value", s)
		return def
	}
	return n
}
