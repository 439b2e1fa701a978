package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"TickerVault/internal/config"
	"TickerVault/internal/logging"
	"TickerVault/internal/report"
	"TickerVault/internal/snapshot"
)

func main() {
	var (
		path    = flag.String("snapshot", "", "combined dataset snapshot (required)")
		column  = flag.String("column", "MA_10", "value column to rank by")
		sortBy  = flag.Int("sort", 30, "delta horizon, in days, to sort on")
		topN    = flag.Int("top", 20, "number of symbols to report")
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

	if *path == "" {
		logger.Fatal("-snapshot is required")
	}
	valid := false
	for _, h := range report.Horizons {
		if h == *sortBy {
			valid = true
			break
		}
	}
	if !valid {
		logger.Fatal("bad -sort horizon", zap.Int("sort", *sortBy), zap.Ints("valid", report.Horizons))
	}

	table, err := snapshot.Read(*path)
	if err != nil {
		logger.Fatal("read snapshot", zap.Error(err))
	}
	if len(table.Rows) == 0 {
		logger.Warn("snapshot is empty, nothing to report", zap.String("path", *path))
		return
	}

	entries, err := report.Build(table, *column)
	if err != nil {
		logger.Fatal("build report", zap.Error(err))
	}

	top := report.TopN(entries, *sortBy, *topN)
	fmt.Printf("Top %d symbols by %dd delta of %s\n\n", len(top), *sortBy, *column)
	fmt.Print(report.Format(top, *column))
}
