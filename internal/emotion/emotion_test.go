package emotion

import (
	"context"
	"testing"
)

func TestParseLabel(t *testing.T) {
	for _, s := range []string{"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral"} {
		label, err := ParseLabel(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if string(label) != s {
			t.Fatalf("got %q, want %q", label, s)
		}
	}
}

func TestParseLabelRejectsUnknownStrings(t *testing.T) {
	for _, s := range []string{"", "joy", "HAPPY", "unknown"} {
		if _, err := ParseLabel(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestStubTextEstimator(t *testing.T) {
	var est StubTextEstimator
	if got := est.Estimate(context.Background(), "feeling great"); got != Unknown {
		t.Fatalf("got %q, want unknown", got)
	}
}
