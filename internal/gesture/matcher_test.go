package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/features"
)

func TestMatcher_Match(t *testing.T) {
	matcher := NewMatcher()
	matcher.AddTemplate(&Template{Gesture: Tap, Sequence: ramp(10, 0, 5), Tolerance: 10})
	matcher.AddTemplate(&Template{Gesture: Slide, Sequence: ramp(10, 120, -5), Tolerance: 10})

	matches := matcher.Match(ramp(10, 0, 5))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Template.Gesture != Tap {
		t.Errorf("expected TAP, got %s", matches[0].Template.Gesture)
	}
	if matches[0].Score != 1 {
		t.Errorf("expected score 1 for identical window, got %f", matches[0].Score)
	}
}

func TestMatcher_SortedByScore(t *testing.T) {
	matcher := NewMatcher()
	matcher.AddTemplate(&Template{Gesture: Drag, Sequence: ramp(10, 2, 5), Tolerance: 1000})
	matcher.AddTemplate(&Template{Gesture: Tap, Sequence: ramp(10, 0, 5), Tolerance: 1000})
	matcher.AddTemplate(&Template{Gesture: ZoomIn, Sequence: ramp(10, 40, 5), Tolerance: 1000})

	matches := matcher.Match(ramp(10, 0, 5))
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	want := []Gesture{Tap, Drag, ZoomIn}
	for i, g := range want {
		if matches[i].Template.Gesture != g {
			t.Errorf("match %d: expected %s, got %s", i, g, matches[i].Template.Gesture)
		}
	}
}

func TestMatcher_NoMatch(t *testing.T) {
	matcher := NewMatcher()
	matcher.AddTemplate(&Template{Gesture: Tap, Sequence: ramp(10, 0, 5), Tolerance: 1})

	if matches := matcher.Match(ramp(10, 90, 0)); len(matches) != 0 {
		t.Errorf("expected no matches outside tolerance, got %d", len(matches))
	}
	if matches := matcher.Match(nil); matches != nil {
		t.Errorf("expected nil for empty window, got %v", matches)
	}
}

func TestMatcher_AddReplacesAndRemove(t *testing.T) {
	matcher := NewMatcher()
	matcher.AddTemplate(&Template{Gesture: Tap, Sequence: ramp(10, 0, 5), Tolerance: 1})
	matcher.AddTemplate(&Template{Gesture: Tap, Sequence: ramp(10, 90, 0), Tolerance: 1})
	matcher.AddTemplate(&Template{Gesture: None, Sequence: ramp(10, 0, 5), Tolerance: 1})
	matcher.AddTemplate(nil)

	if matcher.Len() != 1 {
		t.Fatalf("expected 1 template, got %d", matcher.Len())
	}
	if matches := matcher.Match(ramp(10, 90, 0)); len(matches) != 1 {
		t.Errorf("expected replaced template to match, got %d matches", len(matches))
	}

	matcher.RemoveTemplate(Tap)
	if matcher.Len() != 0 {
		t.Errorf("expected 0 templates after remove, got %d", matcher.Len())
	}
}

func TestMatcher_SkipsEmptyTemplate(t *testing.T) {
	matcher := NewMatcher()
	matcher.AddTemplate(&Template{Gesture: Tap, Sequence: []features.Vector{}, Tolerance: 1000})

	if matches := matcher.Match(ramp(3, 0, 1)); len(matches) != 0 {
		t.Errorf("expected empty template to be skipped, got %d matches", len(matches))
	}
}
