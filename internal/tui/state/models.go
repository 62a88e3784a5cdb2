package state

// Mode is what the keyboard is currently talking to.
type Mode int

const (
	Editing Mode = iota
	PickLanguage
	EditFilename
	OpenPath
	Find
	ReplaceFind // first step of replace: the search term
	ReplaceWith // second step: the replacement
	Overlay
	Help
)

func (m Mode) String() string {
	switch m {
	case PickLanguage:
		return "LANG"
	case EditFilename:
		return "NAME"
	case OpenPath:
		return "OPEN"
	case Find:
		return "FIND"
	case ReplaceFind, ReplaceWith:
		return "REPLACE"
	case Overlay:
		return "OVERLAY"
	case Help:
		return "HELP"
	default:
		return "EDIT"
	}
}

// DiffMode controls how the overlay diff is rendered.
type DiffMode int

const (
	Unified DiffMode = iota
	SideBySide
)

// NoticeKind colours the status line notice.
type NoticeKind int

const (
	Info NoticeKind = iota
	Warn
	Error
)

// UIState holds cross-widget UI state used by the status bar, the diff and
// the main view.
type UIState struct {
	// Mode & View
	Mode     Mode
	View     DiffMode
	ShowDiff bool
	Preview  bool

	// Layout
	Width  int
	Height int
	MinCol int // narrowest usable diff column

	// Cursor, reported by the editor after every update
	Line   int
	Column int

	// Notices and ephemeral messages
	Notice     string
	NoticeKind NoticeKind

	// External is set when the store file changed under us.
	External bool
}
