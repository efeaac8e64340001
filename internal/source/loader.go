package source

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/rs/zerolog/log"
)

// Failure is a source that could not be loaded.
type Failure struct {
	Source Source
	Err    error
}

// Batch is the outcome of loading a set of sources. Images keep the order
// of the sources that produced them, whatever order decoding finished in.
type Batch struct {
	Images     []atlas.SourceImage
	Failed     []Failure
	InputBytes int64
}

// Loader decodes sources in parallel.
type Loader struct {
	Workers int
}

// NewLoader returns a loader with the given worker count (0 = NumCPU).
func NewLoader(workers int) *Loader {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Loader{Workers: workers}
}

type loadResult struct {
	img atlas.SourceImage
	err error
}

// Load reads and decodes every source. Failed items are reported in
// Batch.Failed and left out of Batch.Images; Load itself only fails when
// every source failed.
func (l *Loader) Load(sources []Source) (Batch, error) {
	results := make([]loadResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, l.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			log.Debug().Str("file", s.RelPath).Msg("decoding")
			results[idx] = loadOne(s)
		}(i, src)
	}
	wg.Wait()

	var b Batch
	for i, r := range results {
		if r.err != nil {
			log.Warn().Err(r.err).Str("file", sources[i].RelPath).Msg("skipping image")
			b.Failed = append(b.Failed, Failure{Source: sources[i], Err: r.err})
			continue
		}
		b.Images = append(b.Images, r.img)
		b.InputBytes += sources[i].Size
	}

	if len(sources) > 0 && len(b.Failed) == len(sources) {
		return b, fmt.Errorf("all %d images failed to load", len(sources))
	}
	return b, nil
}

func loadOne(s Source) loadResult {
	data, err := os.ReadFile(s.AbsPath)
	if err != nil {
		return loadResult{err: fmt.Errorf("read %s: %w", s.RelPath, err)}
	}
	img, err := Decode(s.AbsPath, data)
	return loadResult{img: img, err: err}
}
