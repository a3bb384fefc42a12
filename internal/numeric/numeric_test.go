package numeric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, LabelInt, Label[int32]())
	assert.Equal(t, LabelLong, Label[int64]())
	assert.Equal(t, LabelUint, Label[uint32]())
	assert.Equal(t, LabelUlong, Label[uint64]())
	assert.Equal(t, LabelFloat, Label[float32]())
	assert.Equal(t, LabelDouble, Label[float64]())
	assert.Equal(t, "int8", Label[int8]())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Integer, KindOf[int64]())
	assert.Equal(t, Integer, KindOf[uint32]())
	assert.Equal(t, Float, KindOf[float32]())
	assert.Equal(t, Float, KindOf[float64]())
}

func TestLookup(t *testing.T) {
	for _, label := range Labels() {
		_, err := Lookup(label)
		require.NoError(t, err, label)
	}

	k, err := Lookup(LabelDouble)
	require.NoError(t, err)
	assert.Equal(t, Float, k)

	_, err = Lookup("complex")
	assert.True(t, errors.Is(err, ErrUnknownType))
	assert.Contains(t, err.Error(), "complex")
}
