// Command preprocess builds the page manifest for a local folder without the
// HTTP service. Page images and manifest.json are written to the output
// directory. With -sequence the pages are also sent to the configured engine
// and result.json is written alongside.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/stapler/internal/config"
	"github.com/JaimeStill/stapler/internal/infrastructure"
	"github.com/JaimeStill/stapler/internal/prompts"
	"github.com/JaimeStill/stapler/internal/workflow"
)

func main() {
	var opts options
	configPath := flag.String("config", config.BaseConfigFile, "Path to config.toml")
	flag.StringVar(&opts.Dir, "dir", "", "Folder of scanned artifacts")
	flag.StringVar(&opts.Out, "out", "out", "Output directory")
	flag.StringVar(&opts.Mapping, "mapping", "", "Optional filename mapping JSON")
	flag.BoolVar(&opts.Sequence, "sequence", false, "Send pages to the sequencing engine")
	flag.Parse()

	if opts.Dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger, logFile := infrastructure.NewLogger(&cfg.Logging, os.Stderr)
	defer logFile.Close()

	rt, err := workflow.NewRuntime(cfg, prompts.Defaults{}, logger)
	if err != nil {
		log.Fatal("runtime init failed: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, rt, opts); err != nil {
		logger.Error("preprocess failed", "error", err)
		stop()
		logFile.Close()
		os.Exit(1)
	}
}
