// Package emitter turns a completed layout into text: the position table,
// a generated TypeScript snippet referencing it, an alternate per-image
// table and the bare positions list.
//
// Every artifact is derived from the same Layout and ExportPlan, so the
// numbers and the image filename always agree with the atlas that was
// rendered. An empty layout yields empty artifacts.
package emitter

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
)

// PositionTable is the compact sprite description: Left holds the left
// edge of every image in pack order followed by the canvas width, so the
// width of image i is Left[i+1]-Left[i].
type PositionTable struct {
	Label  string `json:"label"`
	Image  string `json:"img"`
	Height int    `json:"height"`
	Top    int    `json:"top"`
	Left   []int  `json:"left"`
}

// Table builds the position table. ok is false for an empty layout.
func Table(l atlas.Layout, req atlas.ExportRequest) (PositionTable, bool) {
	if l.Empty() {
		return PositionTable{}, false
	}
	plan := atlas.PlanExport(l, req)
	return PositionTable{
		Label:  Label(req.BaseNameOr()),
		Image:  plan.Filename,
		Height: l.CanvasHeight,
		Top:    0,
		Left:   Left(l),
	}, true
}

// Left returns the rounded StartX of each image plus the canvas width
// sentinel. It is nil for an empty layout.
func Left(l atlas.Layout) []int {
	if l.Empty() {
		return nil
	}
	left := make([]int, 0, len(l.Images)+1)
	for _, img := range l.Images {
		left = append(left, roundInt(float64(img.StartX)))
	}
	return append(left, roundInt(float64(l.CanvasWidth)))
}

// Positions renders Left as a bracketed list, e.g. "[2, 16, 38]".
func Positions(l atlas.Layout) string {
	left := Left(l)
	if left == nil {
		return ""
	}
	parts := make([]string, len(left))
	for i, v := range left {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// PascalCase turns a base name into an identifier: every run of letters
// and digits is capitalised and everything else is dropped, so
// "walk-cycle_left" becomes "WalkCycleLeft" and "2 walk.v1" becomes
// "_2WalkV1". A leading digit gets an underscore prefix.
func PascalCase(s string) string {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, seg := range segments {
		r, size := utf8.DecodeRuneInString(seg)
		if b.Len() == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(seg[size:])
	}
	return b.String()
}

// Label is the human-readable sprite label: delimiters become spaces.
func Label(s string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// altDimension scales an already scaled dimension again, so alternate
// table sizes are scale² relative to the natural size.
func altDimension(scaled int, scale float64) int {
	return roundInt(float64(scaled) * scale / 100)
}
