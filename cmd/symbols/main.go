package main

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"TickerVault/internal/config"
	"TickerVault/internal/logging"
	"TickerVault/internal/symbols"
)

func main() {
	var (
		out         = flag.String("out", "nasdaq_symbols.csv", "output CSV path")
		includeTest = flag.Bool("include-test", false, "keep test issues in the output")
		timeout     = flag.Duration("timeout", 30*time.Second, "FTP dial timeout")
		cfgPath     = flag.String("config", "configs/config.yaml", "config file")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.File, cfg.Log.Debug)
	defer logger.Sync()

	logger.Info("downloading NASDAQ symbol directory")
	listings, err := symbols.DownloadNasdaqListed(*timeout)
	if err != nil {
		logger.Fatal("download symbol directory", zap.Error(err))
	}

	n, err := symbols.WriteCSV(*out, listings, *includeTest)
	if err != nil {
		logger.Fatal("write symbol CSV", zap.String("path", *out), zap.Error(err))
	}
	logger.Info("wrote symbol directory",
		zap.String("path", *out),
		zap.Int("symbols", n),
		zap.Int("listed", len(listings)))
}
