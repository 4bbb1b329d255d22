// Command cropctl replays a crop gesture over an image and writes the
// selected region at full resolution.
//
//	cropctl -in photo.jpg -out crop.png -view 375x667 -events drag.yaml
//	cropctl -in scan.bmp.zst -out crop.bmp -engine bmp -rect 10,20,300,200
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sebnyberg/cropview/internal/config"
	"github.com/sebnyberg/cropview/internal/logx"
)

func main() {
	var p params
	var (
		engine     string
		resolution string
		filter     string
		logLevel   string
		logFormat  string
		compress   bool
	)
	flag.StringVar(&p.configPath, "config", "cropctl.yaml", "Path to the YAML config file")
	flag.StringVar(&p.in, "in", "", "Input image (.zst for seekable zstd)")
	flag.StringVar(&p.out, "out", "", "Output image")
	flag.StringVar(&p.view, "view", "", "View size WxH the image is fitted into (default: image size)")
	flag.StringVar(&p.rect, "rect", "", "Crop rectangle x,y,w,h in view coordinates")
	flag.StringVar(&p.events, "events", "", "YAML file of pointer events to replay")
	flag.StringVar(&p.orientation, "orientation", "", "Storage orientation (default: from EXIF)")
	flag.StringVar(&p.preview, "preview", "", "Write a PNG preview of the mask to this path")
	flag.BoolVar(&p.saveSelection, "save-selection", false, "Store the final selection in the config file")
	flag.StringVar(&engine, "engine", "", "Crop engine: imaging, draw, vips, vips-stream, vips-file, bmp or tiff")
	flag.StringVar(&resolution, "resolution", "", "Extract at native or display resolution")
	flag.StringVar(&filter, "filter", "", "Resampling filter")
	flag.StringVar(&logLevel, "log-level", "", "Log level")
	flag.StringVar(&logFormat, "log-format", "", "Log format: console or json")
	flag.BoolVar(&compress, "compress", false, "Write seekable zstd output")
	flag.Parse()

	if p.in == "" || p.out == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -in image -out image [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, cfgErr := config.Load(p.configPath)
	if cfgErr != nil && !config.IsValidation(cfgErr) {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", cfgErr)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "engine":
			cfg.Engine = engine
		case "resolution":
			cfg.Resolution = resolution
		case "filter":
			cfg.Filter = filter
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "compress":
			cfg.Output.Compress = compress
		}
	})
	flagErr := cfg.Validate()

	logger, err := logx.Build(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	if cfgErr != nil {
		logger.Warn("config", zap.Error(cfgErr))
	}
	if flagErr != nil {
		logger.Warn("flags", zap.Error(flagErr))
	}

	if err := run(p, cfg, logger); err != nil {
		logger.Error("crop failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
