// Package intake validates uploaded image blobs before they enter the
// recognition pipeline. Validation is pure: no I/O, no side effects.
package intake

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/agrisight/paddy/internal/domain"
)

// ValidatedImage is the opaque handle the pipeline consumes. The raw bytes
// are carried through to the classifier and artifact store, then discarded.
type ValidatedImage struct {
	Data        []byte
	ContentType string
	Size        int64
}

type Validator struct {
	maxBytes     int64
	allowedTypes []string
}

func NewValidator(maxBytes int64, allowedTypes []string) *Validator {
	return &Validator{
		maxBytes:     maxBytes,
		allowedTypes: allowedTypes,
	}
}

// Validate checks presence, declared and sniffed content type, and size.
// The sniffed type wins over the declared one so a mislabeled upload cannot
// smuggle an unsupported format past the allow-list.
func (v *Validator) Validate(data []byte, declaredContentType string, declaredSize int64) (*ValidatedImage, error) {
	if len(data) == 0 {
		return nil, domain.ErrMissingFile
	}

	size := int64(len(data))
	if declaredSize > size {
		size = declaredSize
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", domain.ErrPayloadTooLarge, size, v.maxBytes)
	}

	sniffed := http.DetectContentType(data)
	if !v.allowed(sniffed) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, sniffed)
	}
	if declared := normalize(declaredContentType); declared != "" && declared != sniffed && !v.allowed(declared) {
		return nil, fmt.Errorf("%w: declared %s", domain.ErrUnsupportedType, declared)
	}

	return &ValidatedImage{
		Data:        data,
		ContentType: sniffed,
		Size:        int64(len(data)),
	}, nil
}

func (v *Validator) allowed(contentType string) bool {
	return slices.Contains(v.allowedTypes, contentType)
}

func normalize(contentType string) string {
	// strip parameters like "; charset=..."
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
