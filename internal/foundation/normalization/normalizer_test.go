package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type freq string

func newFreq() *Normalizer[freq] {
	return NewEnumNormalizer("changefreq", map[string]freq{
		"daily":  "daily",
		"weekly": "weekly",
	}, "weekly")
}

func TestNormalize(t *testing.T) {
	n := newFreq()
	assert.Equal(t, freq("daily"), n.Normalize("  DAILY "))
	assert.Equal(t, freq("weekly"), n.Normalize("fortnightly"))
	assert.Equal(t, freq("weekly"), n.Normalize(""))
}

func TestNormalizeWithValidation(t *testing.T) {
	n := newFreq()

	v, err := n.NormalizeWithValidation("Weekly")
	require.NoError(t, err)
	assert.Equal(t, freq("weekly"), v)

	_, err = n.NormalizeWithValidation("hourly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid changefreq")
	assert.Contains(t, err.Error(), "daily, weekly")
}

func TestValidKeysIsACopy(t *testing.T) {
	n := newFreq()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"daily", "weekly"}, n.ValidKeys())
}
