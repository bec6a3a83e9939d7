package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/handiism/exif-batch/internal/config"
	"github.com/handiism/exif-batch/internal/engine"
	"github.com/handiism/exif-batch/internal/model"
	"github.com/spf13/pflag"
)

func main() {
	// Command line flags
	var (
		folderFlag   = pflag.StringP("folder", "f", "", "Folder containing the images to process")
		opFlag       = pflag.StringP("op", "o", "", "Operation to run: extract, modify, or delete")
		tagFlag      = pflag.String("tag", "", "Tag name to modify (e.g. Artist, GPSLatitude)")
		valueFlag    = pflag.String("value", "", "New tag value for modify")
		kindFlag     = pflag.String("kind", "text", "Value kind for modify: text, integer, rational, or raw")
		configFlag   = pflag.String("config", "", "Path to config file")
		batchFlag    = pflag.Int("batch-size", 0, "Files per batch (overrides config)")
		workersFlag  = pflag.Int("workers", 0, "Concurrent workers per batch (0 = one per CPU)")
		thumbsFlag   = pflag.Bool("thumbnails", false, "Export embedded thumbnails during extract")
		thumbDirFlag = pflag.String("thumbnails-path", "", "Thumbnail export directory (overrides config)")
		verboseFlag  = pflag.BoolP("verbose", "v", false, "Show per-file progress output")
	)

	pflag.Parse()

	folder := *folderFlag
	if folder == "" && pflag.NArg() > 0 {
		folder = pflag.Arg(0)
	}

	if folder == "" || *opFlag == "" {
		fmt.Println("exif-batch - Batch-process EXIF metadata in image files")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  exif-batch -f <folder> -o extract [--thumbnails]")
		fmt.Println("  exif-batch -f <folder> -o modify --tag Artist --value \"Alice\"")
		fmt.Println("  exif-batch -f <folder> -o delete")
		fmt.Println()
		fmt.Println("For interactive mode, use: exif-tui")
		fmt.Println()
		pflag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *batchFlag > 0 {
		settings.BatchSize = *batchFlag
	}
	if *workersFlag > 0 {
		settings.Workers = *workersFlag
	}
	if *thumbsFlag {
		settings.SaveThumbnails = true
	}
	if *thumbDirFlag != "" {
		settings.SaveThumbnails = true
		settings.ThumbnailsPath = *thumbDirFlag
	}
	if *verboseFlag {
		settings.Verbose = true
	}

	op, ok := model.ParseOperation(*opFlag)
	if !ok {
		// Let the engine report the configuration error uniformly.
		op = model.Operation(*opFlag)
	}

	value, err := parseValue(*kindFlag, *valueFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create engine with progress callback
	eng := engine.New(settings, func(event engine.ProgressEvent) {
		if event.Level == engine.LevelVerbose && !settings.Verbose {
			return
		}

		prefix := "  "
		switch event.Level {
		case engine.LevelError:
			prefix = "x "
		case engine.LevelWarning:
			prefix = "! "
		case engine.LevelSuccess:
			prefix = "+ "
		case engine.LevelInfo:
			prefix = "> "
		}

		fmt.Println(prefix + event.Message)
	})

	report, err := eng.Run(ctx, folder, op, *tagFlag, value)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nRun cancelled.")
			os.Exit(130)
		}
		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", cfgErr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	report.Render(os.Stdout)
}

// parseValue builds the typed tag value for modify from the --kind and
// --value flags.
func parseValue(kind, raw string) (model.TagValue, error) {
	switch strings.ToLower(kind) {
	case "text":
		return model.Text(raw), nil

	case "integer":
		if raw == "" {
			return model.TagValue{}, nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.TagValue{}, fmt.Errorf("invalid integer value %q", raw)
		}
		return model.Integer(n), nil

	case "rational":
		if raw == "" {
			return model.TagValue{}, nil
		}
		num, den, found := strings.Cut(raw, "/")
		if !found {
			return model.TagValue{}, fmt.Errorf("rational value must be num/den, got %q", raw)
		}
		n, err1 := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		d, err2 := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return model.TagValue{}, fmt.Errorf("invalid rational value %q", raw)
		}
		return model.Rational(n, d), nil

	case "raw":
		return model.Raw([]byte(raw)), nil
	}

	return model.TagValue{}, fmt.Errorf("unknown value kind %q", kind)
}
