// Package preview renders a read-only, syntax highlighted copy of the
// document in a scrollable pane.
package preview

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	cacheMu sync.RWMutex
	cache   = map[string]string{}
)

const maxCached = 64

// Highlight returns text with ANSI colours for languageID in the named
// chroma style. Unknown languages and formatter errors yield the text as is.
func Highlight(text, languageID, style string) string {
	key := languageID + ":" + style + ":" + text
	cacheMu.RLock()
	if v, ok := cache[key]; ok {
		cacheMu.RUnlock()
		return v
	}
	cacheMu.RUnlock()

	lex := lexers.Get(languageID)
	if lex == nil || languageID == "plaintext" {
		return text
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(style)
	if sty == nil {
		sty = styles.Fallback
	}
	fmtr := formatters.Get("terminal256")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}
	it, err := lex.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := fmtr.Format(&buf, sty, it); err != nil {
		return text
	}
	out := strings.TrimRight(buf.String(), "\n")

	cacheMu.Lock()
	if len(cache) >= maxCached {
		cache = map[string]string{}
	}
	cache[key] = out
	cacheMu.Unlock()
	return out
}

// Preview is the pane. It re-highlights only when its input changes.
type Preview struct {
	vp      viewport.Model
	text    string
	lang    string
	style   string
	noColor bool
}

func New(width, height int) Preview {
	return Preview{vp: viewport.New(width, height)}
}

func (p *Preview) SetSize(width, height int) {
	p.vp.Width, p.vp.Height = width, height
}

// SetContent updates the pane. noColor skips highlighting entirely.
func (p *Preview) SetContent(text, languageID, style string, noColor bool) {
	if text == p.text && languageID == p.lang && style == p.style && noColor == p.noColor {
		return
	}
	p.text, p.lang, p.style, p.noColor = text, languageID, style, noColor
	if noColor {
		p.vp.SetContent(text)
		return
	}
	p.vp.SetContent(Highlight(text, languageID, style))
}

// ScrollTo keeps line (1-based) in view.
func (p *Preview) ScrollTo(line int) {
	top := p.vp.YOffset
	switch {
	case line-1 < top:
		p.vp.SetYOffset(line - 1)
	case line-1 >= top+p.vp.Height:
		p.vp.SetYOffset(line - p.vp.Height)
	}
}

func (p *Preview) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p Preview) View() string { return p.vp.View() }
