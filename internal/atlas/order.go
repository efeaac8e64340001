package atlas

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a numeric-aware, case- and accent-insensitive
// collator. Collators are not safe for concurrent use, so each call site
// gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric, collate.Loose)
}

// CompareNames compares two identifiers in natural order: digit runs
// compare by value ("sprite2" < "sprite10") and case is ignored.
func CompareNames(a, b string) int {
	return newCollator().CompareString(a, b)
}

// Order returns a copy of images sorted by natural order of Name. Equal
// names keep their relative insertion order.
func Order(images []SourceImage) []SourceImage {
	out := make([]SourceImage, len(images))
	copy(out, images)

	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}
