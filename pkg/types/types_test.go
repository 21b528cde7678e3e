package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FlexString
	}{
		{"string", `"7.52"`, "7.52"},
		{"number", `7.52`, "7.52"},
		{"integer", `12`, "12"},
		{"null", `null`, ""},
		{"bool", `true`, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				V FlexString `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"v":`+tt.raw+`}`), &got))
			assert.Equal(t, tt.want, got.V)
		})
	}

	t.Run("absent field", func(t *testing.T) {
		var got struct {
			V FlexString `json:"v"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{}`), &got))
		assert.Equal(t, FlexString(""), got.V)
	})

	t.Run("object is rejected", func(t *testing.T) {
		var got FlexString
		assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &got))
	})
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FlexInt
	}{
		{"number", `3`, Int(3)},
		{"numeric string", `"12"`, Int(12)},
		{"float", `4.0`, Int(4)},
		{"null", `null`, FlexInt{}},
		{"placeholder", `"?"`, FlexInt{}},
		{"false", `false`, FlexInt{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("truthy", func(t *testing.T) {
		assert.True(t, Int(2).Truthy())
		assert.False(t, Int(0).Truthy())
		assert.False(t, FlexInt{}.Truthy())
	})

	t.Run("marshal", func(t *testing.T) {
		b, err := json.Marshal([]FlexInt{Int(5), {}})
		require.NoError(t, err)
		assert.JSONEq(t, `[5, null]`, string(b))
	})
}
