package emotion

import (
	"context"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rakawanegan/Emotter/internal/imaging"
)

func testFrame() imaging.Frame {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.Gray{Y: 128})
		}
	}
	return imaging.Frame{Image: img, Format: "png", Width: 8, Height: 8}
}

func classifierServer(t *testing.T, handler http.HandlerFunc) *HTTPClassifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewHTTPClassifier(srv.URL)
	return c
}

func TestHTTPClassifierOK(t *testing.T) {
	c := classifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("got content type %q, want image/jpeg", ct)
		}
		w.Write([]byte(`{"emotion":"happy","score":0.93,"face_found":true}`))
	})

	pred, err := c.Classify(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if pred.Label != Happy || pred.Score != 0.93 {
		t.Fatalf("unexpected prediction %+v", pred)
	}
}

func TestHTTPClassifierNoFace(t *testing.T) {
	c := classifierServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"face_found":false}`))
	})

	_, err := c.Classify(context.Background(), testFrame())
	if !errors.Is(err, ErrNoFace) {
		t.Fatalf("expected ErrNoFace, got %v", err)
	}
}

func TestHTTPClassifierRejectsVocabularyViolations(t *testing.T) {
	c := classifierServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"emotion":"ecstatic","score":0.5,"face_found":true}`))
	})

	if _, err := c.Classify(context.Background(), testFrame()); err == nil {
		t.Fatalf("expected error for out-of-vocabulary label")
	}
}

func TestHTTPClassifierRejectsScoreOutOfRange(t *testing.T) {
	c := classifierServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"emotion":"happy","score":1.5,"face_found":true}`))
	})

	if _, err := c.Classify(context.Background(), testFrame()); err == nil {
		t.Fatalf("expected error for out-of-range score")
	}
}

func TestHTTPClassifierServerError(t *testing.T) {
	c := classifierServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.Classify(context.Background(), testFrame()); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestHTTPClassifierContextDeadline(t *testing.T) {
	c := classifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Classify(ctx, testFrame())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
