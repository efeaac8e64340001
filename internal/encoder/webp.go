package encoder

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// ErrWebPTooWide is returned when asked to encode a canvas wider than the
// codec allows. Callers are expected to have resolved the format first.
var ErrWebPTooWide = errors.New("webp: canvas exceeds maximum dimension")

// WebPEncoder encodes images to WebP by shelling out to cwebp.
// This approach avoids CGO while still producing optimized WebP.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() atlas.Format { return atlas.FormatWebP }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	b := img.Bounds()
	if b.Dx() > atlas.MaxWebPDimension || b.Dy() > atlas.MaxWebPDimension {
		return nil, fmt.Errorf("%dx%d: %w", b.Dx(), b.Dy(), ErrWebPTooWide)
	}
	if quality <= 0 || quality > 100 {
		quality = Quality(atlas.DefaultQuality)
	}

	// cwebp reads files, so stage the atlas as PNG.
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("spritesheet_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("spritesheet_dst_%d_*.webp", id))
	if err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	if err := png.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	srcFile.Close()

	cmd := exec.Command(e.cwebpPath,
		"-q", strconv.Itoa(quality),
		"-alpha_q", "100",
		"-m", "6", // compression method (0=fast, 6=best)
		"-mt",
		"-quiet",
		srcPath,
		"-o", dstPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}

	return os.ReadFile(dstPath)
}
