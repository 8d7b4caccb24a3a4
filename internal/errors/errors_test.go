package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	assert.EqualError(t, err, "test error")
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		assert.EqualError(t, wrapped, "wrapped: base error")
		assert.ErrorIs(t, wrapped, baseErr)
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "wrapped"))
	})

	t.Run("wrap sentinel keeps identity", func(t *testing.T) {
		domainErr := Wrap(ErrNotFound, "subject not found")
		assert.True(t, Is(domainErr, ErrNotFound))
		assert.False(t, Is(domainErr, ErrConflict))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "boom"}, "context")

	var target customError
	assert.True(t, As(err, &target))
	assert.Equal(t, "boom", target.Msg)
}

func TestJoin(t *testing.T) {
	err := Join(ErrForbidden, nil, ErrInvalidInput)
	assert.True(t, Is(err, ErrForbidden))
	assert.True(t, Is(err, ErrInvalidInput))
	assert.Nil(t, Join(nil, nil))
}
