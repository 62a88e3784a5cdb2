package session

// Action ids understood by RunAction.
const (
	ActionFind    = "actions.find"
	ActionReplace = "editor.action.startFindReplaceAction"
)

// Theme ids passed to SetTheme.
const (
	ThemeDark  = "vs-dark"
	ThemeLight = "vs"
)

// Position is a 1-based line and rune column.
type Position struct {
	Line   int
	Column int
}

func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

// Range spans [Start, End). Columns count runes, starting at 1.
type Range struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

func (r Range) Start() Position { return Position{r.StartLine, r.StartColumn} }
func (r Range) End() Position   { return Position{r.EndLine, r.EndColumn} }
func (r Range) Empty() bool     { return r.Start() == r.End() }

// Normalized orders the endpoints so Start is not after End.
func (r Range) Normalized() Range {
	if r.End().Before(r.Start()) {
		return RangeOf(r.End(), r.Start())
	}
	return r
}

func RangeOf(start, end Position) Range {
	return Range{StartLine: start.Line, StartColumn: start.Column, EndLine: end.Line, EndColumn: end.Column}
}

// EditOperation replaces Range with Text.
type EditOperation struct {
	Range Range
	Text  string
}

// SelectionComputer receives the ranges covered by the inserted text and
// returns the selections the widget should end up with.
type SelectionComputer func(inserted []Range) []Range

// Options is a partial widget configuration: nil fields are left unchanged.
type Options struct {
	WordWrap    *bool
	LineNumbers *bool
	Compact     *bool
}

func Bool(b bool) *bool { return &b }

// DocumentWidget is everything the controller needs from the embedded
// editing component.
type DocumentWidget interface {
	GetValue() string
	SetValue(text string)
	SetModelLanguage(languageID string)
	SetTheme(theme string)
	UpdateOptions(opts Options)
	SetScrollTop(top int)

	// GetSelection reports the current selection; ok is false when nothing
	// is selected.
	GetSelection() (sel Range, ok bool)
	GetValueInRange(r Range) string
	PushEditOperations(before []Range, edits []EditOperation, compute SelectionComputer)
	RevealRangeInCenter(r Range)

	Focus()
	RunAction(id string) error
}
