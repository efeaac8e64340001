package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/encoder"
	"github.com/AnyUserName/spritesheet-cli/internal/render"
	"github.com/AnyUserName/spritesheet-cli/internal/server"
	"github.com/AnyUserName/spritesheet-cli/internal/source"
)

var (
	serveFlags layoutFlags
	serveAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve [inputs...]",
	Short: "Run the HTTP layout API",
	Long: `Serves one layout session over HTTP. Images given as arguments are
loaded before the listener starts; more can be uploaded with POST /images.

  POST   /images            multipart field "images"
  DELETE /images            clear the session
  DELETE /images/:name      remove one image
  PUT    /scale/:value      scale percent (10-200)
  PUT    /height/:value     target height in px
  PUT    /format/:format    webp, png or jpg
  GET    /layout            layout summary and frames
  GET    /atlas             encoded atlas (204 when empty)
  GET    /table             position table JSON
  GET    /code[?helper=true], /code/alt, /positions`,
	RunE: runServe,
}

func init() {
	serveFlags.register(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := serveFlags.settings(cmd)
	if err != nil {
		return err
	}

	cache, err := render.NewCache(render.DefaultCacheBytes)
	if err != nil {
		return err
	}
	defer cache.Close()

	var batch source.Batch
	if len(args) > 0 {
		sources, err := source.Scan(args...)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if batch, err = source.NewLoader(s.Workers).Load(sources); err != nil {
			return fmt.Errorf("load: %w", err)
		}
	}

	opts := s.Options()
	if s.Height > 0 && len(batch.Images) > 0 {
		if opts.Scale, err = atlas.ScaleForHeight(batch.Images, s.Height); err != nil {
			return err
		}
	}
	srv, err := server.New(server.Config{Name: s.Name, Options: opts, Quality: s.Quality},
		render.New(cache), encoder.NewRegistry())
	if err != nil {
		return err
	}
	if len(batch.Images) > 0 {
		log.Info().Msg(srv.AddImages(batch.Images...).Summary())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	if err := srv.Listen(serveAddr); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
