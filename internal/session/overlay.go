package session

import "errors"

var (
	ErrOverlayOpen   = errors.New("overlay already open")
	ErrOverlayClosed = errors.New("overlay not open")
)

type OverlayMode int

const (
	OverlayFull OverlayMode = iota
	OverlayRange
)

func (m OverlayMode) String() string {
	if m == OverlayRange {
		return "range"
	}
	return "full"
}

// EditSession is the transient state of an open overlay.
type EditSession struct {
	Mode  OverlayMode
	Range Range  // only meaningful in range mode
	Seed  string // text the overlay started with
}

// Overlay is the plain-text editing fallback for small screens. It edits
// either the current selection or the whole document; one session at a time.
type Overlay struct {
	c    *Controller
	open bool
	sess EditSession
}

func (o *Overlay) IsOpen() bool { return o.open }

func (o *Overlay) Session() (EditSession, bool) { return o.sess, o.open }

// Open seeds a session from the selection, or the full document when the
// selection is empty.
func (o *Overlay) Open() (EditSession, error) {
	if o.open {
		return o.sess, ErrOverlayOpen
	}
	w := o.c.widget
	if sel, ok := w.GetSelection(); ok && !sel.Empty() {
		sel = sel.Normalized()
		o.sess = EditSession{Mode: OverlayRange, Range: sel, Seed: w.GetValueInRange(sel)}
	} else {
		o.sess = EditSession{Mode: OverlayFull, Seed: w.GetValue()}
	}
	o.open = true
	return o.sess, nil
}

// Apply writes text back and closes the session. In range mode exactly the
// captured range is replaced and the selection ends up spanning the new
// text, which is also returned. The active language is flushed either way.
func (o *Overlay) Apply(text string) (Range, error) {
	if !o.open {
		return Range{}, ErrOverlayClosed
	}
	sess := o.sess
	o.open, o.sess = false, EditSession{}

	w := o.c.widget
	var result Range
	if sess.Mode == OverlayRange {
		result = SpanOf(sess.Range.Start(), text)
		w.PushEditOperations(
			[]Range{sess.Range},
			[]EditOperation{{Range: sess.Range, Text: text}},
			func([]Range) []Range { return []Range{result} },
		)
		w.RevealRangeInCenter(result)
	} else {
		w.SetValue(text)
		result = FullRange(text)
	}
	o.c.FlushCurrent()
	return result, nil
}

// Cancel drops the session without touching the document.
func (o *Overlay) Cancel() {
	o.open, o.sess = false, EditSession{}
}
