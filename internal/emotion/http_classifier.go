package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"net/http"

	"github.com/rakawanegan/Emotter/internal/imaging"
)

// HTTPClassifier calls an emotion-detection model served as an HTTP
// sidecar. The frame is re-encoded as JPEG and posted to the configured
// endpoint.
type HTTPClassifier struct {
	URL    string
	Client *http.Client
}

func NewHTTPClassifier(url string) *HTTPClassifier {
	return &HTTPClassifier{
		URL:    url,
		Client: http.DefaultClient,
	}
}

type classifyResponse struct {
	Emotion   string  `json:"emotion"`
	Score     float64 `json:"score"`
	FaceFound bool    `json:"face_found"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, frame imaging.Frame) (Prediction, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame.Image, nil); err != nil {
		return Prediction{}, fmt.Errorf("encode frame: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &buf)
	if err != nil {
		return Prediction{}, err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("classifier status %d", resp.StatusCode)
	}

	var body classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Prediction{}, fmt.Errorf("decode classifier response: %w", err)
	}

	if !body.FaceFound {
		return Prediction{}, ErrNoFace
	}

	label, err := ParseLabel(body.Emotion)
	if err != nil {
		return Prediction{}, err
	}
	if body.Score < 0 || body.Score > 1 {
		return Prediction{}, fmt.Errorf("classifier score %v out of range", body.Score)
	}

	return Prediction{Label: label, Score: body.Score}, nil
}
