package emotion

import (
	"context"
	"errors"
	"fmt"

	"github.com/rakawanegan/Emotter/internal/imaging"
)

// Label is a member of the fixed emotion vocabulary.
type Label string

const (
	Angry    Label = "angry"
	Disgust  Label = "disgust"
	Fear     Label = "fear"
	Happy    Label = "happy"
	Sad      Label = "sad"
	Surprise Label = "surprise"
	Neutral  Label = "neutral"

	// Unknown is the sentinel produced by the text estimator stub. It is
	// not part of the face vocabulary.
	Unknown Label = "unknown"
)

var vocabulary = map[Label]struct{}{
	Angry:    {},
	Disgust:  {},
	Fear:     {},
	Happy:    {},
	Sad:      {},
	Surprise: {},
	Neutral:  {},
}

// ErrNoFace reports that the model found no detectable face region.
var ErrNoFace = errors.New("no face detected")

// ParseLabel validates a raw model label against the vocabulary.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if _, ok := vocabulary[l]; !ok {
		return "", fmt.Errorf("label %q not in emotion vocabulary", s)
	}
	return l, nil
}

// Prediction is a dominant emotion with its confidence score in [0,1].
type Prediction struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Classifier derives a dominant emotion from a decoded camera frame.
// Implementations are deterministic for identical pixels and a fixed model
// version only; labels are not stable across model releases.
type Classifier interface {
	Classify(ctx context.Context, frame imaging.Frame) (Prediction, error)
}

// TextEstimator derives an emotion from post text.
type TextEstimator interface {
	Estimate(ctx context.Context, text string) Label
}

// StubTextEstimator always answers Unknown. Text emotion estimation is not
// implemented yet; posts record the sentinel rather than a guessed label.
type StubTextEstimator struct{}

func (StubTextEstimator) Estimate(context.Context, string) Label {
	return Unknown
}
