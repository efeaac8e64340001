package atlas

import "fmt"

// State is the working-set lifecycle state.
type State int

const (
	StateEmpty State = iota
	StatePopulated
)

func (s State) String() string {
	if s == StatePopulated {
		return "populated"
	}
	return "empty"
}

// Session owns a working set of images and the layout derived from it.
// Every mutation recomputes the whole layout before replacing the old one,
// so a Layout read from a Session always matches its current images and
// scale.
//
// A Session is not safe for concurrent use.
type Session struct {
	opts    Options
	images  []SourceImage // arrival order
	ordered []SourceImage // natural order, recomputed on add/remove
	layout  Layout
	rev     uint64
}

// NewSession returns an empty session with the given options.
func NewSession(opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	s := &Session{opts: opts}
	s.relayout()
	return s, nil
}

// AddImages appends a batch in arrival order, then re-orders and re-packs
// the full working set.
func (s *Session) AddImages(batch ...SourceImage) Layout {
	if len(batch) == 0 {
		return s.layout.clone()
	}
	images := make([]SourceImage, 0, len(s.images)+len(batch))
	images = append(images, s.images...)
	images = append(images, batch...)
	s.images = images
	s.ordered = Order(images)
	s.relayout()
	return s.layout.clone()
}

// Remove drops every image with one of the given names and relays out.
// It reports how many images were removed.
func (s *Session) Remove(names ...string) (Layout, int) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]SourceImage, 0, len(s.images))
	for _, img := range s.images {
		if !drop[img.Name] {
			kept = append(kept, img)
		}
	}
	removed := len(s.images) - len(kept)
	if removed == 0 {
		return s.layout.clone(), 0
	}
	s.images = kept
	s.ordered = Order(kept)
	s.relayout()
	return s.layout.clone(), removed
}

// SetScale re-packs at a new scale without re-ordering. Out-of-range
// values are rejected and leave the session untouched.
func (s *Session) SetScale(scale float64) (Layout, error) {
	if err := ValidateScale(scale); err != nil {
		return s.layout.clone(), err
	}
	s.opts.Scale = scale
	s.relayout()
	return s.layout.clone(), nil
}

// SetFormat changes the requested format and re-resolves the encoding.
func (s *Session) SetFormat(f Format) (Layout, error) {
	f, err := ParseFormat(string(f))
	if err != nil {
		return s.layout.clone(), err
	}
	s.opts.Format = f
	s.relayout()
	return s.layout.clone(), nil
}

// Clear discards every image and the cached layout.
func (s *Session) Clear() {
	s.images = nil
	s.ordered = nil
	s.relayout()
}

// Layout returns the current layout; ok is false in the Empty state.
func (s *Session) Layout() (Layout, bool) {
	return s.layout.clone(), !s.layout.Empty()
}

// Images returns the working set in arrival order.
func (s *Session) Images() []SourceImage {
	out := make([]SourceImage, len(s.images))
	copy(out, s.images)
	return out
}

// Options returns the current scale, padding and format.
func (s *Session) Options() Options { return s.opts }

// State reports Empty or Populated.
func (s *Session) State() State {
	if len(s.images) == 0 {
		return StateEmpty
	}
	return StatePopulated
}

// Len is the number of images in the working set.
func (s *Session) Len() int { return len(s.images) }

// Revision increases on every transition. Anything cached from a layout
// (rendered or encoded bitmaps) is stale once the revision moves.
func (s *Session) Revision() uint64 { return s.rev }

func (l Layout) clone() Layout {
	l.Images = append([]ScaledImage(nil), l.Images...)
	if l.Images == nil {
		l.Images = []ScaledImage{}
	}
	return l
}

func (s *Session) relayout() {
	s.layout = layoutOrdered(s.ordered, s.opts)
	s.rev++
}
