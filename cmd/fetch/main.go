package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TickerVault/internal/config"
	"TickerVault/internal/fetcher"
	"TickerVault/internal/logging"
	"TickerVault/internal/provider"
	"TickerVault/internal/recorder"
	"TickerVault/internal/scheduler"
	"TickerVault/internal/store"
	"TickerVault/internal/symbols"
)

func main() {
	var (
		symbolsPath = flag.String("symbols", "nasdaq_symbols.csv", "CSV file with a Symbol column")
		output      = flag.String("output", "data/raw", "directory for per-symbol JSON records")
		start       = flag.String("start", "2020-01-01", "start date (YYYY-MM-DD)")
		end         = flag.String("end", "", "end date (YYYY-MM-DD), today when empty")
		threads     = flag.Int("threads", 5, "parallel download workers")
		delay       = flag.Duration("delay", 100*time.Millisecond, "pause between requests per worker")
		retries     = flag.Int("retries", 3, "attempts per symbol before giving up")
		retryDelay  = flag.Duration("retry-delay", 5*time.Second, "pause between attempts")
		subsample   = flag.Float64("subsample", 0, "download only this fraction of the symbols (0 disables)")
		seed        = flag.Int64("seed", 42, "seed for the subsample draw")
		force       = flag.Bool("force", false, "re-download symbols already in the store")
		cronSpec    = flag.String("cron", "", "cron schedule for periodic refresh (runs once when empty)")
		cfgPath     = flag.String("config", "configs/config.yaml", "config file")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// no logger yet
		fatal("load config: " + err.Error())
	}
	logger := logging.New(cfg.Log.File, cfg.Log.Debug)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}

	startDate, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
	if err != nil {
		logger.Fatal("bad -start date", zap.Error(err))
	}
	endDate := time.Now().UTC()
	if *end != "" {
		endDate, err = time.ParseInLocation("2006-01-02", *end, time.UTC)
		if err != nil {
			logger.Fatal("bad -end date", zap.Error(err))
		}
	}
	if endDate.Before(startDate) {
		logger.Fatal("date range is inverted",
			zap.String("start", *start), zap.String("end", endDate.Format("2006-01-02")))
	}

	syms, err := symbols.Load(*symbolsPath)
	if err != nil {
		logger.Fatal("load symbol list", zap.Error(err))
	}
	logger.Info("loaded symbol list", zap.String("file", *symbolsPath), zap.Int("count", len(syms)))
	if *subsample > 0 {
		syms, err = symbols.Subsample(syms, *subsample, *seed)
		if err != nil {
			logger.Fatal("subsample symbol list", zap.Error(err))
		}
		logger.Info("subsampled symbol list",
			zap.Float64("fraction", *subsample), zap.Int64("seed", *seed), zap.Int("count", len(syms)))
	}
	if len(syms) == 0 {
		logger.Warn("no symbols to download")
		return
	}

	st, err := store.New(*output)
	if err != nil {
		logger.Fatal("create output directory", zap.Error(err))
	}

	var prov provider.Provider
	if cfg.DataSource.BaseURL != "" {
		prov = provider.NewREST(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		prov = provider.NewYahoo(cfg.Proxy)
	}
	logger.Info("data source", zap.String("provider", prov.Name()))

	var rec recorder.Recorder
	if cfg.Ledger.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Ledger.SQLitePath)
		if err != nil {
			logger.Warn("run ledger unavailable, continuing without it", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	f := fetcher.New(prov, st, logger, fetcher.Options{
		Start:      startDate,
		End:        endDate,
		Threads:    *threads,
		Delay:      *delay,
		Retries:    *retries,
		RetryDelay: *retryDelay,
		Force:      *force,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runOnce := func() {
		runID := uuid.NewString()
		logger.Info("starting download run",
			zap.String("run_id", runID),
			zap.Int("symbols", len(syms)),
			zap.Int("threads", *threads),
			zap.String("start", startDate.Format("2006-01-02")),
			zap.String("end", endDate.Format("2006-01-02")))

		sum := f.FetchAll(ctx, syms)

		for _, fail := range sum.Failures {
			reason := ""
			if fail.Err != nil {
				reason = fail.Err.Error()
			}
			if err := rec.RecordFetchFailure(&recorder.FetchFailure{
				RunID:    runID,
				Symbol:   fail.Symbol,
				Attempts: fail.Attempts,
				Reason:   reason,
			}); err != nil {
				logger.Warn("record fetch failure", zap.Error(err))
			}
		}
		if err := rec.RecordFetchRun(&recorder.FetchRun{
			RunID:     runID,
			Started:   sum.Started,
			Finished:  sum.Finished,
			Requested: sum.Requested,
			Fetched:   sum.Fetched,
			Cached:    sum.Cached,
			Failed:    sum.Failed,
		}); err != nil {
			logger.Warn("record fetch run", zap.Error(err))
		}

		logger.Info("download run finished",
			zap.String("run_id", runID),
			zap.Int("fetched", sum.Fetched),
			zap.Int("cached", sum.Cached),
			zap.Int("failed", sum.Failed),
			zap.Duration("took", sum.Finished.Sub(sum.Started)))
	}

	if *cronSpec == "" {
		runOnce()
		return
	}

	sched := scheduler.New(logger)
	if err := sched.Register(*cronSpec, runOnce); err != nil {
		logger.Fatal("register refresh schedule", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()
	runOnce()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received, stopping")
	cancel()
}

func fatal(msg string) {
	os.Stderr.WriteString(msg + "\n")
	os.Exit(1)
}
