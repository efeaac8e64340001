package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/spritesheet-cli/internal/encoder"
	"github.com/AnyUserName/spritesheet-cli/internal/pipeline"
	"github.com/AnyUserName/spritesheet-cli/internal/render"
	"github.com/AnyUserName/spritesheet-cli/internal/watch"
)

var (
	watchFlags    layoutFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dirs...>",
	Short: "Rebuild the atlas whenever images change",
	Long: `Builds once, then watches the directories and rebuilds after every
burst of image changes. Each rebuild is a full relayout of the current
directory contents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := watchFlags.settings(cmd)
	if err != nil {
		return err
	}
	if s.Out, err = filepath.Abs(s.Out); err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	cache, err := render.NewCache(render.DefaultCacheBytes)
	if err != nil {
		return err
	}
	defer cache.Close()
	p := pipeline.New(pipeline.Config{Inputs: args, Settings: s}, encoder.NewRegistry(), render.New(cache))

	rebuild := func() {
		start := time.Now()
		res, err := p.Run()
		if err != nil {
			log.Error().Err(err).Msg("rebuild failed")
			return
		}
		log.Info().
			Str("atlas", res.Plan.Filename).
			Dur("took", time.Since(start).Round(time.Millisecond)).
			Msg(res.Layout.Summary())
	}
	rebuild()

	w, err := watch.New(watchDebounce, args...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info().Strs("dirs", args).Msg("watching for changes, Ctrl+C to stop")

	for {
		select {
		case b, ok := <-w.Batches:
			if !ok {
				return nil
			}
			if onlyOutputs(b, s.Out, s.Name) {
				continue
			}
			log.Debug().Strs("paths", b.Paths).Msg("change")
			rebuild()
		case err, ok := <-w.Errors:
			if ok {
				log.Warn().Err(err).Msg("watch error")
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func onlyOutputs(b watch.Batch, outDir, name string) bool {
	for _, path := range b.Paths {
		if !pipeline.IsOutput(outDir, name, path) {
			return false
		}
	}
	return true
}
