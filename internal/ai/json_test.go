package ai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: ` {"a": 1} `, want: `{"a": 1}`},
		{name: "json fence", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", raw: "```\n{\"a\": 1}\n```\n", want: `{"a": 1}`},
		{name: "prose around object", raw: "Here you go:\n{\"a\": {\"b\": 2}}\nThanks!", want: `{"a": {"b": 2}}`},
		{name: "no object", raw: "nothing to see", want: "nothing to see"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.raw))
		})
	}
}

func TestCoerceHelpers(t *testing.T) {
	assert.InDelta(t, 0.7, coerceFloat("0.7"), 1e-9)
	assert.InDelta(t, 3, coerceFloat(3.0), 1e-9)
	assert.True(t, math.IsNaN(coerceFloat("high")))
	assert.True(t, math.IsNaN(coerceFloat(nil)))

	assert.Equal(t, "x", coerceString(" x "))
	assert.Equal(t, `{"k":1}`, coerceString(map[string]any{"k": 1}))
	assert.Empty(t, coerceString(nil))

	assert.Equal(t, []string{"a", "b"}, coerceStrings([]any{"a", " ", "b"}))
	assert.Equal(t, []string{"solo"}, coerceStrings("solo"))
	assert.Equal(t, []string{}, coerceStrings(nil))
	assert.Equal(t, []string{}, coerceStrings(""))

	assert.False(t, truthy(""))
	assert.False(t, truthy(0.0))
	assert.False(t, truthy([]any{}))
	assert.True(t, truthy("x"))
	assert.True(t, truthy(1.5))
}
