package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/muhammadolammi/careermatchworker/internal/document"
)

var (
	// ErrMissingInput means no document content was supplied.
	ErrMissingInput = errors.New("missing input: no document supplied")
	// ErrUnsupportedMediaType means the declared type is not PDF or Word.
	ErrUnsupportedMediaType = document.ErrUnsupportedMediaType
	// ErrUnreadableDocument means text extraction failed or found no text.
	ErrUnreadableDocument = document.ErrUnreadableDocument
)

// Failure kinds reported alongside failed analyses.
const (
	KindMissingInput         = "missing_input"
	KindUnsupportedMediaType = "unsupported_media_type"
	KindUnreadableDocument   = "unreadable_document"
	KindCancelled            = "cancelled"
	KindProcessingFailure    = "processing_failure"
)

// ProcessingError is an unexpected fault inside the pipeline.
type ProcessingError struct {
	Message string
	Cause   error
}

func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processing failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("processing failed: %s", e.Message)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// Kind classifies an error returned by Analyze.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return KindMissingInput
	case errors.Is(err, ErrUnsupportedMediaType):
		return KindUnsupportedMediaType
	case errors.Is(err, ErrUnreadableDocument):
		return KindUnreadableDocument
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindProcessingFailure
	}
}
