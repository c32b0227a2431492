package post

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("not the post owner")
)

// Reason tags why an ingestion was rejected.
type Reason string

const (
	ReasonMalformedPayload  Reason = "malformed_payload"
	ReasonNoFace            Reason = "no_face_detected"
	ReasonClassifierTimeout Reason = "classifier_timeout"
	ReasonClassifier        Reason = "classifier_error"
	ReasonStorage           Reason = "storage_error"
)

// IngestionError reports a rejected submission. The whole ingestion aborts:
// no post row exists when one of these is returned.
type IngestionError struct {
	Reason Reason
	cause  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed (%s): %v", e.Reason, e.cause)
}

func (e *IngestionError) Unwrap() error { return e.cause }

func ingestionFailed(reason Reason, cause error) *IngestionError {
	return &IngestionError{Reason: reason, cause: cause}
}
