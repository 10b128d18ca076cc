package identity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew_Unique(t *testing.T) {
	first := New()
	second := New()

	assert.NotEqual(t, uuid.Nil, first)
	assert.NotEqual(t, first, second)
}

func TestParse_RoundTrip(t *testing.T) {
	id := New()

	parsed, err := Parse(id.String())

	assert.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-uuid",
		"123e4567-e89b-12d3-a456",
		"zzze4567-e89b-12d3-a456-426614174000",
	}

	for _, raw := range cases {
		_, err := Parse(raw)
		assert.Error(t, err, "input %q", raw)
		assert.True(t, errors.Is(err, ErrMalformedIdentifier), "input %q", raw)
	}
}
