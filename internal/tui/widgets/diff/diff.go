package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"codepad/internal/tui/state"
)

var (
	delLine  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	addLine  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	delChar  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
	addChar  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
	faint    = lipgloss.NewStyle().Faint(true)
	tagStyle = lipgloss.NewStyle().Bold(true)
)

type DiffView struct{}

func NewDiffView() DiffView { return DiffView{} }

// View renders what an overlay edit would change. For SideBySide it aligns
// two columns with a vertical separator. For Unified it prefixes lines with
// +/- markers. Changed line pairs get character-level highlights.
func (DiffView) View(s state.UIState, before, after string) string {
	if before == after {
		return "No changes\n"
	}
	if s.View == state.SideBySide {
		return sideBySide(before, after, s)
	}
	return unified(before, after)
}

// lineDiff pairs up lines with the line-mode diff so insertions and
// deletions don't shift every later line out of alignment.
func lineDiff(before, after string) []dmp.Diff {
	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffMain(a, b, false)
	return d.DiffCharsToLines(diffs, lines)
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func charDiff(bl, al string) []dmp.Diff {
	d := dmp.New()
	diffs := d.DiffMain(bl, al, false)
	return d.DiffCleanupSemantic(diffs)
}

func unified(before, after string) string {
	var sb strings.Builder
	sb.WriteString(tagStyle.Render("BEFORE vs AFTER (Unified)") + "\n")
	diffs := lineDiff(before, after)
	for i := 0; i < len(diffs); i++ {
		df := diffs[i]
		switch df.Type {
		case dmp.DiffEqual:
			for _, l := range splitLines(df.Text) {
				sb.WriteString("  " + faint.Render(l) + "\n")
			}
		case dmp.DiffDelete:
			// a delete followed by an insert of the same size is a change:
			// show it with character-level spans
			if i+1 < len(diffs) && diffs[i+1].Type == dmp.DiffInsert {
				dl, al := splitLines(df.Text), splitLines(diffs[i+1].Text)
				if len(dl) == len(al) {
					for j := range dl {
						writePair(&sb, dl[j], al[j])
					}
					i++
					continue
				}
			}
			for _, l := range splitLines(df.Text) {
				sb.WriteString(delLine.Render("- "+l) + "\n")
			}
		case dmp.DiffInsert:
			for _, l := range splitLines(df.Text) {
				sb.WriteString(addLine.Render("+ "+l) + "\n")
			}
		}
	}
	return sb.String()
}

func writePair(sb *strings.Builder, bl, al string) {
	diffs := charDiff(bl, al)
	sb.WriteString(delLine.Render("- "))
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffDelete:
			sb.WriteString(delChar.Render(df.Text))
		case dmp.DiffEqual:
			sb.WriteString(delLine.Render(df.Text))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(addLine.Render("+ "))
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffInsert:
			sb.WriteString(addChar.Render(df.Text))
		case dmp.DiffEqual:
			sb.WriteString(addLine.Render(df.Text))
		}
	}
	sb.WriteString("\n")
}

func sideBySide(before, after string, s state.UIState) string {
	const sep = " │ "
	left := strings.Split(before, "\n")
	right := strings.Split(after, "\n")
	max := len(left)
	if len(right) > max {
		max = len(right)
	}
	// Compute column width from total width if provided
	colWidth := 40
	if s.Width > 0 {
		colWidth = (s.Width - len([]rune(sep))) / 2
		if colWidth < 10 {
			colWidth = 10
		}
	}
	var b strings.Builder
	b.WriteString(pad(tagStyle.Render("BEFORE"), colWidth) + sep + tagStyle.Render("AFTER") + "\n")
	for i := 0; i < max; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		l, r = clip(l, colWidth), clip(r, colWidth)
		if l == r {
			b.WriteString(pad(faint.Render(l), colWidth) + sep + faint.Render(r) + "\n")
			continue
		}
		var lbuf, rbuf strings.Builder
		for _, df := range charDiff(l, r) {
			switch df.Type {
			case dmp.DiffDelete:
				lbuf.WriteString(delChar.Render(df.Text))
			case dmp.DiffInsert:
				rbuf.WriteString(addChar.Render(df.Text))
			case dmp.DiffEqual:
				lbuf.WriteString(delLine.Render(df.Text))
				rbuf.WriteString(addLine.Render(df.Text))
			}
		}
		b.WriteString(pad(lbuf.String(), colWidth) + sep + rbuf.String() + "\n")
	}
	return b.String()
}

func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	return s
}

// pad pads a (possibly styled) string to width visible cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
