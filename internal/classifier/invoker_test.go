package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/domain"
)

// scriptedClient returns queued outcomes in order and counts calls.
type scriptedClient struct {
	calls   int
	results []func() (*domain.Diagnosis, error)
}

func (c *scriptedClient) Classify(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error) {
	idx := c.calls
	c.calls++
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	return c.results[idx]()
}

func okDiagnosis() (*domain.Diagnosis, error) {
	return &domain.Diagnosis{DiseaseName: "Rice Blast", Confidence: 95.2}, nil
}

func timeoutErr() (*domain.Diagnosis, error) {
	return nil, context.DeadlineExceeded
}

func TestInvokerSuccessNoRetry(t *testing.T) {
	client := &scriptedClient{results: []func() (*domain.Diagnosis, error){okDiagnosis}}
	inv := NewInvoker(client, time.Second, zap.NewNop())

	d, err := inv.Classify(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Rice Blast", d.DiseaseName)
	assert.Equal(t, 1, client.calls)
}

func TestInvokerRetriesOnceOnTimeout(t *testing.T) {
	client := &scriptedClient{results: []func() (*domain.Diagnosis, error){timeoutErr, okDiagnosis}}
	inv := NewInvoker(client, time.Second, zap.NewNop())

	d, err := inv.Classify(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Rice Blast", d.DiseaseName)
	assert.Equal(t, 2, client.calls)
}

func TestInvokerTwoTimeoutsBecomeUnavailable(t *testing.T) {
	client := &scriptedClient{results: []func() (*domain.Diagnosis, error){timeoutErr, timeoutErr}}
	inv := NewInvoker(client, time.Second, zap.NewNop())

	_, err := inv.Classify(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassificationUnavailable))
	// exactly one retry
	assert.Equal(t, 2, client.calls)
}

func TestInvokerInvalidResponseNotRetried(t *testing.T) {
	client := &scriptedClient{results: []func() (*domain.Diagnosis, error){
		func() (*domain.Diagnosis, error) { return nil, domain.ErrClassificationInvalidResponse },
	}}
	inv := NewInvoker(client, time.Second, zap.NewNop())

	_, err := inv.Classify(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassificationInvalidResponse))
	assert.Equal(t, 1, client.calls)
}

func TestInvokerProviderFailureNotRetried(t *testing.T) {
	client := &scriptedClient{results: []func() (*domain.Diagnosis, error){
		func() (*domain.Diagnosis, error) { return nil, errors.New("connection refused") },
	}}
	inv := NewInvoker(client, time.Second, zap.NewNop())

	_, err := inv.Classify(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassificationUnavailable))
	assert.Equal(t, 1, client.calls)
}

func TestInvokerRejectsOutOfRangeConfidence(t *testing.T) {
	client := &scriptedClient{results: []func() (*domain.Diagnosis, error){
		func() (*domain.Diagnosis, error) {
			return &domain.Diagnosis{DiseaseName: "Rice Blast", Confidence: 120}, nil
		},
	}}
	inv := NewInvoker(client, time.Second, zap.NewNop())

	_, err := inv.Classify(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassificationInvalidResponse))
}

func TestInvokerAppliesTimeoutToSlowClient(t *testing.T) {
	slow := &blockingClient{}
	inv := NewInvoker(slow, 20*time.Millisecond, zap.NewNop())

	_, err := inv.Classify(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassificationUnavailable))
	assert.Equal(t, 2, slow.calls)
}

type blockingClient struct {
	calls int
}

func (c *blockingClient) Classify(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error) {
	c.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}
