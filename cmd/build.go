package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/spritesheet-cli/internal/encoder"
	"github.com/AnyUserName/spritesheet-cli/internal/pipeline"
	"github.com/AnyUserName/spritesheet-cli/internal/profile"
	"github.com/AnyUserName/spritesheet-cli/internal/render"
)

var buildFlags layoutFlags

var buildCmd = &cobra.Command{
	Use:   "build <inputs...>",
	Short: "Pack images into an atlas and write the manifest and snippets",
	Long: `Scans the given files and directories for images (png, jpg, jpeg, gif,
bmp, tiff, webp, svg), orders them by natural name, scales and packs them
left to right into one atlas, and writes:

  <name>.<format>          the atlas bitmap
  <name>.manifest.json     frames, position table and build stats
  <name>.sprite.ts         position table snippet      (--emit code)
  <name>.alt.ts            per-image position table    (--emit alt)
  <name>.positions.txt     left edges plus sentinel    (--emit positions)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildFlags.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	s, err := buildFlags.settings(cmd)
	if err != nil {
		return err
	}
	absOutput, err := filepath.Abs(s.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	s.Out = absOutput

	log.Debug().Strs("inputs", args).Str("out", s.Out).Msg("build")
	log.Debug().
		Str("profile", s.Profile).
		Str("format", s.Format.String()).
		Float64("scale", s.Scale).
		Int("padding", s.Padding).
		Strs("emit", s.Emit).
		Msg("settings")

	cache, err := render.NewCache(render.DefaultCacheBytes)
	if err != nil {
		return err
	}
	defer cache.Close()

	p := pipeline.New(pipeline.Config{Inputs: args, Settings: s}, encoder.NewRegistry(), render.New(cache))
	res, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	printBuildReport(res, s, time.Since(start))
	return nil
}

func printBuildReport(res *pipeline.Result, s profile.Settings, elapsed time.Duration) {
	m := res.Manifest
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║            spritesheet build complete            ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Printf("  %s\n\n", res.Layout.Summary())
	fmt.Printf("  Images:      %d\n", m.Stats.Images)
	if m.Stats.Skipped > 0 {
		fmt.Printf("  Skipped:     %d (failed to decode)\n", m.Stats.Skipped)
	}
	fmt.Printf("  Scale:       %g%%\n", m.Scale)
	fmt.Printf("  Padding:     %d px\n", m.Padding)
	fmt.Printf("  Format:      %s\n", m.Format)
	fmt.Printf("  Input size:  %s\n", formatBytes(m.Stats.TotalInputBytes))
	fmt.Printf("  Atlas size:  %s\n", formatBytes(m.Size))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	for _, f := range res.Failed {
		fmt.Printf("  ✗ %s: %v\n", f.Source.RelPath, f.Err)
	}
	for _, notice := range []string{res.Notice, res.Plan.Advisory()} {
		if notice != "" {
			fmt.Printf("  ⚠ %s\n", notice)
		}
	}

	fmt.Printf("  Written to %s:\n", s.Out)
	for _, name := range res.Written {
		size := int64(0)
		if info, err := os.Stat(filepath.Join(s.Out, name)); err == nil {
			size = info.Size()
		}
		fmt.Printf("    %-40s %8s\n", truncKey(name, 40), formatBytes(size))
	}
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
