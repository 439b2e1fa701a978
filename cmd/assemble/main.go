package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TickerVault/internal/assembler"
	"TickerVault/internal/config"
	"TickerVault/internal/logging"
	"TickerVault/internal/recorder"
	"TickerVault/internal/snapshot"
	"TickerVault/internal/store"
)

func main() {
	var (
		input   = flag.String("input", "data/raw", "directory of per-symbol JSON records")
		windows = flag.String("windows", "5,10,30,90", "comma-separated moving-average windows")
		drop    = flag.String("drop", "", "comma-separated columns to exclude from the output")
		fill    = flag.String("fill", "ffill", "gap fill policy: ffill or bfill")
		out     = flag.String("out", "", "snapshot output path (required)")
		cfgPath = flag.String("config", "configs/config.yaml", "config file")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.File, cfg.Log.Debug)
	defer logger.Sync()

	if *out == "" {
		logger.Fatal("-out is required")
	}
	ws, err := parseWindows(*windows)
	if err != nil {
		logger.Fatal("bad -windows", zap.Error(err))
	}

	st, err := store.New(*input)
	if err != nil {
		logger.Fatal("open input directory", zap.Error(err))
	}

	asm, err := assembler.New(st, logger, assembler.Options{
		Windows: ws,
		Drop:    splitList(*drop),
		Fill:    assembler.FillPolicy(*fill),
	})
	if err != nil {
		logger.Fatal("bad assembler options", zap.Error(err))
	}

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

	runID := uuid.NewString()
	started := time.Now()
	logger.Info("starting assembly run",
		zap.String("run_id", runID),
		zap.String("input", *input),
		zap.Ints("windows", ws),
		zap.String("fill", *fill))

	table, stats, err := asm.Assemble()
	if err != nil {
		logger.Fatal("assemble", zap.Error(err))
	}

	if err := snapshot.Write(*out, table); err != nil {
		logger.Fatal("write snapshot", zap.String("path", *out), zap.Error(err))
	}

	if err := rec.RecordAssemblyRun(&recorder.AssemblyRun{
		RunID:    runID,
		Started:  started,
		Finished: time.Now(),
		Loaded:   stats.Loaded,
		Skipped:  stats.Skipped,
		Dropped:  stats.Dropped,
		Symbols:  stats.Symbols,
		Rows:     len(table.Rows),
		Output:   *out,
	}); err != nil {
		logger.Warn("record assembly run", zap.Error(err))
	}

	logger.Info("snapshot written",
		zap.String("run_id", runID),
		zap.String("path", *out),
		zap.Int("symbols", stats.Symbols),
		zap.Int("rows", len(table.Rows)),
		zap.Int("dropped", stats.Dropped),
		zap.Int("skipped", stats.Skipped))
}

func parseWindows(s string) ([]int, error) {
	var ws []int
	for _, part := range splitList(s) {
		w, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
