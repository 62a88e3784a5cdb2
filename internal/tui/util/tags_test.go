package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"codepad/internal/tui/state"
)

func kinds(tags []state.Tag) []state.TagKind {
	out := make([]state.TagKind, len(tags))
	for i, t := range tags {
		out[i] = t.Kind
	}
	return out
}

func TestStableOrder(t *testing.T) {
	tags := ComputeTags(TagInput{
		Text:       "a\nb",
		Preview:    true,
		RangeEdit:  true,
		Compact:    true,
		External:   true,
		SaveFailed: true,
	})
	want := []state.TagKind{state.SAVE_FAILED, state.EXTERNAL, state.COMPACT, state.RANGE, state.PREVIEW, state.LINES, state.CHARS}
	if diff := cmp.Diff(want, kinds(tags)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestCountersAlwaysPresent(t *testing.T) {
	tags := ComputeTags(TagInput{})
	want := []state.Tag{{Kind: state.LINES, Value: 1}, {Kind: state.CHARS, Value: 0}}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestCountsRunes(t *testing.T) {
	tags := ComputeTags(TagInput{Text: "héllo\nwörld\n"})
	want := []state.Tag{{Kind: state.LINES, Value: 3}, {Kind: state.CHARS, Value: 12}}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
