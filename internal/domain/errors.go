package domain

import "errors"

var (
	// intake errors
	ErrMissingFile     = errors.New("no image file provided")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrPayloadTooLarge = errors.New("image exceeds maximum upload size")

	// classification errors
	ErrClassificationTimeout         = errors.New("classification timed out")
	ErrClassificationUnavailable     = errors.New("classification unavailable")
	ErrClassificationInvalidResponse = errors.New("invalid classifier response")

	// storage errors
	ErrPersistenceFailure = errors.New("failed to persist recognition record")
	ErrNotFound           = errors.New("not found")
	ErrInvalidPageParams  = errors.New("page and limit must be positive integers")

	// feedback errors
	ErrMissingText          = errors.New("feedback text is required")
	ErrInvalidFeedbackState = errors.New("invalid feedback status")
)

// ErrorCode maps a domain error to its stable wire code. Unknown errors map
// to internal_error so handlers never leak raw error text as a code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingFile):
		return "missing_file"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, ErrInvalidPageParams):
		return "invalid_page_parameters"
	case errors.Is(err, ErrClassificationTimeout):
		return "classification_timeout"
	case errors.Is(err, ErrClassificationUnavailable):
		return "classification_unavailable"
	case errors.Is(err, ErrClassificationInvalidResponse):
		return "classification_invalid_response"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_failed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMissingText):
		return "missing_text"
	case errors.Is(err, ErrInvalidFeedbackState):
		return "invalid_feedback_status"
	default:
		return "internal_error"
	}
}
