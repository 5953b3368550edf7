package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Nil(t, Combine())
	assert.Nil(t, Combine(nil, nil))

	errA := errors.New("a")
	errB := errors.New("b")

	combined := Combine(nil, errA, nil, errB)
	assert.ErrorIs(t, combined, errA)
	assert.ErrorIs(t, combined, errB)
}

func TestRecoverSwallowsPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		defer Recover("test")
		panic("boom")
	})

	// Outside a panic it is a no-op.
	assert.Nil(t, Recover(""))
}
