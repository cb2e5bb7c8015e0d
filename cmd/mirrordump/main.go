package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/wikieden/Mirror/internal/cliconfig"
	"github.com/wikieden/Mirror/internal/dump"
	"github.com/wikieden/Mirror/pkg/log"
)

const longHelp = `Decode batch capture files written by transport capture hooks.

Each capture file holds one on-wire batch: an 8-byte f64 timestamp header
followed by the concatenated message payloads. mirrordump prints the
timestamp, sizes and a payload preview for each capture, either for a single
file, a whole directory, or continuously as captures appear (--watch).`

var exampleUsage = strings.TrimSpace(`
  mirrordump --file capture/0001.batch
  mirrordump --dir capture --workers 8
  mirrordump --dir capture --watch --debounce 250ms
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "mirrordump",
		Short:   "Decode batch capture files",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config precedence: flags > environment > config file > defaults.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := log.NewZerologAdapterWithLogger(cfg.Logger())
			d := dump.New(logger, cfg.PreviewBytes)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			switch {
			case cfg.File != "":
				_, err := d.File(cfg.File)
				return err
			case cfg.Watch:
				err := d.Watch(ctx, cfg.Dir, cfg.Debounce)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			default:
				return d.Dir(ctx, cfg.Dir, cfg.Workers)
			}
		},
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", "", "path to TOML config file (default ~/.mirrordump/config.toml)")
	root.Flags().StringVar(&cfg.Dir, "dir", cfg.Dir, "capture directory to decode or watch")
	root.Flags().StringVar(&cfg.File, "file", cfg.File, "decode a single capture file")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "keep running and decode captures as they appear")
	root.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent decodes in directory mode")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "settle time before watch mode decodes a file")
	root.Flags().IntVar(&cfg.PreviewBytes, "preview-bytes", cfg.PreviewBytes, "payload bytes to hex-dump per batch")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
