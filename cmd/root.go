package cmd

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "spritesheet",
	Short: "Pack images into a horizontal spritesheet",
	Long: `spritesheet packs a set of images into a single horizontal strip,
scaled and padded, and emits the atlas bitmap together with a manifest,
a TypeScript position table and helper snippets.

Images are ordered by natural, case-insensitive name so that walk2 comes
before walk10. WebP atlases wider or taller than 16383px are exported as PNG.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
}

// Execute runs the root command, logging any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Send()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"spritesheet %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
	setupLogging()
}

func setupLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
}
