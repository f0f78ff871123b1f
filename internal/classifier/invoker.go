package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/domain"
)

// Invoker applies the pipeline's call policy around a Client: a bounded
// per-attempt timeout, and exactly one retry when the first attempt times
// out. A second timeout surfaces as ErrClassificationUnavailable. Invalid
// responses and other provider failures are never retried.
type Invoker struct {
	client  Client
	timeout time.Duration
	log     *zap.Logger
}

func NewInvoker(client Client, timeout time.Duration, log *zap.Logger) *Invoker {
	return &Invoker{
		client:  client,
		timeout: timeout,
		log:     log,
	}
}

func (i *Invoker) Classify(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error) {
	d, err := i.attempt(ctx, image, contentType)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, domain.ErrClassificationTimeout) {
		return nil, err
	}

	i.log.Warn("classification timed out, retrying once",
		zap.Duration("timeout", i.timeout))

	d, err = i.attempt(ctx, image, contentType)
	if err == nil {
		return d, nil
	}
	if errors.Is(err, domain.ErrClassificationTimeout) {
		return nil, fmt.Errorf("%w: timed out twice", domain.ErrClassificationUnavailable)
	}
	return nil, err
}

func (i *Invoker) attempt(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	d, err := i.client.Classify(ctx, image, contentType)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrClassificationTimeout):
			return nil, fmt.Errorf("%w: %v", domain.ErrClassificationTimeout, err)
		case errors.Is(err, domain.ErrClassificationInvalidResponse):
			return nil, err
		default:
			// transport/provider failure, not retryable by policy
			return nil, fmt.Errorf("%w: %v", domain.ErrClassificationUnavailable, err)
		}
	}
	if err := validateDiagnosis(d); err != nil {
		return nil, err
	}
	return d, nil
}
