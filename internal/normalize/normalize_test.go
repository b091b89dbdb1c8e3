package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"  ALICE \t", "alice"},
		{"Spormål", "spormål"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Key(tt.in), "Key(%q)", tt.in)
	}
}

func TestTupleEqual(t *testing.T) {
	assert.True(t, TupleEqual(
		[]string{"Tool", "X", "Y", "001"},
		[]string{"tool", " x ", "y", "001"},
	))
	assert.False(t, TupleEqual(
		[]string{"Tool", "X", "Y", "001"},
		[]string{"Tool", "X", "Y", "1"},
	))
	assert.False(t, TupleEqual([]string{"a"}, []string{"a", "b"}))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "", Cell(nil))
	assert.Equal(t, "001", Cell("001"))
	assert.Equal(t, "123456789", Cell(float64(123456789)))
	assert.Equal(t, "1.5", Cell(1.5))
	assert.Equal(t, "42", Cell(42))
	assert.Equal(t, "True", Cell(true))
	assert.Equal(t, "False", Cell(false))
}
