package errors

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := New("base")
	wrapped := Wrap(base, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "base")
	assert.True(t, Is(wrapped, base))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WrapWriteFailed(nil, "context"))
}

func TestMalformedRecordError(t *testing.T) {
	err := NewMalformedRecordError("labels has %d entries, annotators has %d", 2, 3)

	assert.True(t, IsMalformedRecord(err))
	assert.False(t, IsWriteFailed(err))
	assert.Equal(t, "labels has 2 entries, annotators has 3", err.Error())

	// Survives further wrapping
	wrapped := Wrap(err, "row 4")
	assert.True(t, IsMalformedRecord(wrapped))
	assert.Contains(t, wrapped.Error(), "row 4")
}

func TestWrapWriteFailed(t *testing.T) {
	_, statErr := os.Stat("/definitely/not/here")
	require.Error(t, statErr)

	err := WrapWriteFailed(statErr, "write export")
	assert.True(t, IsWriteFailed(err))
	var pathErr *os.PathError
	assert.True(t, As(err, &pathErr), "underlying cause must stay inspectable")
	assert.Contains(t, err.Error(), "write export")
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrMalformedRecord, ErrInvalidInput, ErrWriteFailed, ErrInvalidConfig}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v must not match %v", a, b)
		}
	}
}

func TestIsAssertionFailure(t *testing.T) {
	err := AssertionFailedf("partition mismatch: %d != %d", 3, 4)
	assert.True(t, IsAssertionFailure(err))
	assert.False(t, IsAssertionFailure(New("plain")))
}

func ExampleWithHint() {
	err := NewInvalidConfigError("validator.confidence_threshold must be within [0,1], got 1.5")
	err = WithHint(err, "set validator.confidence_threshold in am.toml")

	hints := GetAllHints(err)
	fmt.Println(hints[0])
	// Output: set validator.confidence_threshold in am.toml
}
