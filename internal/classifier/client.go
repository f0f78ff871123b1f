// Package classifier wraps the external image-classification capability.
// Every provider implements the same Client interface, so swapping the
// mock table for a live model is a configuration change, not a code change.
package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/agrisight/paddy/internal/domain"
)

// Client maps image bytes to a structured diagnosis. Implementations may
// issue one external network call but never mutate durable state.
type Client interface {
	Classify(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error)
}

// diagnosisPrompt demands strict JSON so every LLM provider can share one
// response parser.
const diagnosisPrompt = `You are a rice crop pathologist. Examine the attached photo of a rice plant
and identify the most likely pest or disease.

Respond with ONLY a JSON object, no markdown, in exactly this shape:
{
  "diseaseName": "<common English name>",
  "confidence": <number between 0 and 100>,
  "description": "<one-paragraph description of the disease>",
  "cause": "<pathogen or pest and the conditions that favor it>",
  "solution": {
    "title": "<short heading for the control measures>",
    "steps": ["<step 1>", "<step 2>", "..."]
  },
  "symptoms": ["<observed symptom>", "..."]
}

If the plant looks healthy use "Healthy" as diseaseName with an empty
solution steps list.`

// validateDiagnosis enforces the diagnosis invariants: non-empty disease
// name and confidence within [0, 100]. Confidence is normalized to two
// decimal places.
func validateDiagnosis(d *domain.Diagnosis) error {
	if d == nil || d.DiseaseName == "" {
		return fmt.Errorf("%w: empty disease name", domain.ErrClassificationInvalidResponse)
	}
	if d.Confidence < 0 || d.Confidence > 100 || math.IsNaN(d.Confidence) {
		return fmt.Errorf("%w: confidence %v out of range", domain.ErrClassificationInvalidResponse, d.Confidence)
	}
	d.Confidence = math.Round(d.Confidence*100) / 100
	return nil
}
