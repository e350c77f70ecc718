package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "gone")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("outer: %w", New(KindConflict, "dup"))))
}

func TestMessageHidesInternalDetails(t *testing.T) {
	assert.Equal(t, "gone", Message(New(KindNotFound, "gone")))
	assert.Equal(t, "internal server error", Message(errors.New("sql: connection refused")))
	assert.Equal(t, "internal server error", Message(Wrap(KindInternal, "db query failed", errors.New("boom"))))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(KindAuth, "bad token", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "bad token")
	assert.Contains(t, err.Error(), "cause")
}

func TestIs(t *testing.T) {
	assert.True(t, Is(New(KindForbidden, "no"), KindForbidden))
	assert.False(t, Is(New(KindForbidden, "no"), KindAuth))
	assert.False(t, Is(nil, KindInternal))
}
