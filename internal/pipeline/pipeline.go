// Package pipeline orchestrates one image submission end to end:
// Validating -> Classifying -> Persisting -> Completed, with terminal
// failure states per stage. A Pipeline value is shared and stateless; each
// Submit call is an independent single-use run.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/artifacts"
	"github.com/agrisight/paddy/internal/domain"
	"github.com/agrisight/paddy/internal/intake"
	"github.com/agrisight/paddy/internal/storage/records"
)

// State is the terminal state of a pipeline run.
type State int

const (
	Completed State = iota
	Rejected
	ClassificationFailed
	PersistenceFailed
)

// Submission is the transient per-request input. It is consumed by Submit
// and never persisted verbatim.
type Submission struct {
	Data        []byte
	ContentType string
	Size        int64
	OwnerID     string
}

// Result is the tagged outcome of one run. Exactly one of the failure
// states carries Err; PersistenceFailed additionally carries the Diagnosis
// that succeeded but could not be saved, so the caller can show it once.
type Result struct {
	State     State
	Record    *domain.RecognitionRecord
	Diagnosis *domain.Diagnosis
	Err       error
}

// Classifier is the invoker seam; satisfied by classifier.Invoker.
type Classifier interface {
	Classify(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error)
}

type Pipeline struct {
	validator  *intake.Validator
	classifier Classifier
	artifacts  artifacts.Store
	records    records.Repository
	log        *zap.Logger
}

func New(validator *intake.Validator, c Classifier, a artifacts.Store, r records.Repository, log *zap.Logger) *Pipeline {
	return &Pipeline{
		validator:  validator,
		classifier: c,
		artifacts:  a,
		records:    r,
		log:        log,
	}
}

// Submit runs the full pipeline for one submission. Identical resubmissions
// are not deduplicated: every run that completes creates a new record with
// a fresh identifier.
//
// Once validation passes, classification and persistence run on a context
// detached from the caller's cancellation. A client that disconnects
// mid-classification does not waste the classifier call: the completed
// diagnosis is still persisted, and a record is either fully written or not
// written at all.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) Result {
	img, err := p.validator.Validate(sub.Data, sub.ContentType, sub.Size)
	if err != nil {
		return Result{State: Rejected, Err: err}
	}

	// survives client disconnect; classifier timeout still bounds each attempt
	ctx = context.WithoutCancel(ctx)

	diagnosis, err := p.classifier.Classify(ctx, img.Data, img.ContentType)
	if err != nil {
		p.log.Warn("classification failed",
			zap.String("owner", sub.OwnerID),
			zap.Error(err))
		return Result{State: ClassificationFailed, Err: err}
	}

	imageURL, err := p.storeArtifact(ctx, img)
	if err != nil {
		p.log.Error("artifact upload failed",
			zap.String("owner", sub.OwnerID),
			zap.Error(err))
		return Result{
			State:     PersistenceFailed,
			Diagnosis: diagnosis,
			Err:       fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err),
		}
	}

	record, err := p.records.Create(ctx, diagnosis, sub.OwnerID, imageURL)
	if err != nil {
		p.log.Error("record create failed",
			zap.String("owner", sub.OwnerID),
			zap.Error(err))
		if !errors.Is(err, domain.ErrPersistenceFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}
		return Result{State: PersistenceFailed, Diagnosis: diagnosis, Err: err}
	}

	p.log.Info("recognition completed",
		zap.String("id", record.ID),
		zap.String("disease", record.DiseaseName),
		zap.Float64("confidence", record.Confidence))

	return Result{State: Completed, Record: record}
}

func (p *Pipeline) storeArtifact(ctx context.Context, img *intake.ValidatedImage) (string, error) {
	key := path.Join("uploads", uuid.NewString()+extensionFor(img.ContentType))
	return p.artifacts.Put(ctx, key, bytes.NewReader(img.Data), img.Size, img.ContentType)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
