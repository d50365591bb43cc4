package conv

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: 3, want: 3, ok: true},
		{in: int64(-2), want: -2, ok: true},
		{in: float32(1.5), want: 1.5, ok: true},
		{in: json.Number("2.25"), want: 2.25, ok: true},
		{in: true, want: 1, ok: true},
		{in: "3", ok: false},
		{in: nil, ok: false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestToString(t *testing.T) {
	s, ok := ToString("Engineer")
	assert.True(t, ok)
	assert.Equal(t, "Engineer", s)

	s, ok = ToString(2.0)
	assert.True(t, ok)
	assert.Equal(t, "2", s)

	_, ok = ToString([]int{1})
	assert.False(t, ok)
}

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{"expr": "item.price > 0", "n": 3.0, "ids": []any{1, 2.0, 2.5, "x"}}

	assert.Equal(t, "item.price > 0", ConfigGet(cfg, "expr", ""))
	assert.Equal(t, "fallback", ConfigGet(cfg, "missing", "fallback"))
	assert.Equal(t, "", ConfigGet(cfg, "n", ""))
	assert.Equal(t, int64(3), ConfigGetInt64(cfg, "n", 0))
	assert.Equal(t, int64(7), ConfigGetInt64(nil, "n", 7))
	assert.Equal(t, []int64{1, 2}, SliceAnyToInt64(cfg["ids"]))
	assert.Nil(t, SliceAnyToInt64("nope"))
}
