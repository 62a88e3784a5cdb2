package tagchips

import (
	"strings"
	"testing"

	"codepad/internal/tui/state"
	"codepad/internal/tui/util"
)

func TestNoColorFallback(t *testing.T) {
	tags := util.ComputeTags(util.TagInput{Text: "ab\nc", SaveFailed: true, Compact: true})
	out := View(tags, true, util.DefaultPalette())
	for _, w := range []string{"[Not saved]", "[Compact]", "[Ln 2]", "[Ch 4]"} {
		if !strings.Contains(out, w) {
			t.Fatalf("expected %q in output: %s", w, out)
		}
	}
	if strings.Index(out, "[Not saved]") > strings.Index(out, "[Compact]") {
		t.Fatalf("chips out of order: %s", out)
	}
}

func TestEmpty(t *testing.T) {
	if View(nil, false, util.DefaultPalette()) != "" {
		t.Fatalf("no tags, no output")
	}
	if chipLabel(state.Tag{Kind: 99}) != "Tag" {
		t.Fatalf("unknown kinds get a generic label")
	}
}
