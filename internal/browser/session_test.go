package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/votelens/votelens/api/schemas"
	"github.com/votelens/votelens/internal/config"
)

func newOfflineSession(t *testing.T) *Session {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &Session{
		ID:     "test",
		ctx:    ctx,
		cancel: cancel,
		cfg:    config.NewDefaultConfig(),
		logger: zap.NewNop(),
	}
}

func TestCombineContext(t *testing.T) {
	t.Run("caller cancellation propagates", func(t *testing.T) {
		sess := newOfflineSession(t)
		callerCtx, callerCancel := context.WithCancel(context.Background())

		combined, cancel := sess.combineContext(callerCtx)
		defer cancel()

		callerCancel()
		select {
		case <-combined.Done():
		case <-time.After(time.Second):
			t.Fatal("combined context did not observe caller cancellation")
		}
	})

	t.Run("session cancellation propagates", func(t *testing.T) {
		sess := newOfflineSession(t)
		combined, cancel := sess.combineContext(context.Background())
		defer cancel()

		sess.Close()
		select {
		case <-combined.Done():
		case <-time.After(time.Second):
			t.Fatal("combined context did not observe session teardown")
		}
	})

	t.Run("independent until canceled", func(t *testing.T) {
		sess := newOfflineSession(t)
		combined, cancel := sess.combineContext(context.Background())
		defer cancel()

		require.NoError(t, combined.Err())
	})
}

func TestClickRecordWithoutLocators(t *testing.T) {
	sess := newOfflineSession(t)

	rec := schemas.ElementRecord{
		XPath: schemas.LocatorUnknown,
		CSS:   schemas.LocatorUnknown,
	}
	err := sess.ClickRecord(context.Background(), rec)
	assert.Error(t, err)
}

func TestErrPageTimeoutIdentity(t *testing.T) {
	wrapped := fmt.Errorf("%w: https://example.com", ErrPageTimeout)
	assert.True(t, errors.Is(wrapped, ErrPageTimeout))
}
