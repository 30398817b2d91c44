package oracle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedOracle struct {
	errs  []error
	calls int
}

func (s *scriptedOracle) next() error {
	s.calls++
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func (s *scriptedOracle) ClassifyAndRewrite(ctx context.Context, content string) (Classification, error) {
	if err := s.next(); err != nil {
		return Classification{}, err
	}
	return Classification{RewrittenContent: content, VisibilityLevel: 1}, nil
}

func (s *scriptedOracle) JudgeReport(ctx context.Context, req JudgeRequest) (Judgement, error) {
	if err := s.next(); err != nil {
		return Judgement{}, err
	}
	return Judgement{Recommendation: Watch}, nil
}

func newTestGuard(next ClassificationOracle, retries int) (*Guard, *[]time.Duration) {
	g := NewGuard(next, GuardConfig{Timeout: time.Second, MaxRetries: retries, RetryWait: 10 * time.Millisecond})
	var waits []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return g, &waits
}

func TestGuardRetriesTransientErrors(t *testing.T) {
	inner := &scriptedOracle{errs: []error{
		fmt.Errorf("%w: status 503", ErrUnavailable),
		context.DeadlineExceeded,
	}}
	g, waits := newTestGuard(inner, 2)

	c, err := g.ClassifyAndRewrite(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.RewrittenContent)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *waits)
}

func TestGuardDoesNotRetryInvalidResponse(t *testing.T) {
	inner := &scriptedOracle{errs: []error{&ParseError{Reason: "garbage"}}}
	g, _ := newTestGuard(inner, 3)

	_, err := g.JudgeReport(context.Background(), JudgeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, 1, inner.calls)
}

func TestGuardGivesUpAfterMaxRetries(t *testing.T) {
	inner := &scriptedOracle{errs: []error{ErrUnavailable, ErrUnavailable, ErrUnavailable}}
	g, _ := newTestGuard(inner, 1)

	_, err := g.ClassifyAndRewrite(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 2, inner.calls)
}

type slowOracle struct{ scriptedOracle }

func (s *slowOracle) ClassifyAndRewrite(ctx context.Context, content string) (Classification, error) {
	<-ctx.Done()
	return Classification{}, ctx.Err()
}

func TestGuardAppliesPerAttemptTimeout(t *testing.T) {
	g := NewGuard(&slowOracle{}, GuardConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := g.ClassifyAndRewrite(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(&ParseError{Reason: "x"}))
	assert.True(t, IsTransient(ErrUnavailable))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
}
