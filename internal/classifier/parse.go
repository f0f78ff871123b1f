package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agrisight/paddy/internal/domain"
)

// parseDiagnosis extracts the JSON object from a model response and decodes
// it into a Diagnosis. Models occasionally wrap the object in markdown
// fences or prose, so everything outside the outermost braces is stripped.
// Any failure is a non-retryable invalid-response error.
func parseDiagnosis(response string) (*domain.Diagnosis, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", domain.ErrClassificationInvalidResponse)
	}

	var d domain.Diagnosis
	if err := json.Unmarshal([]byte(response[start:end+1]), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationInvalidResponse, err)
	}

	if err := validateDiagnosis(&d); err != nil {
		return nil, err
	}
	return &d, nil
}
