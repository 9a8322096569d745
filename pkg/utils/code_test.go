package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]+$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode(CodeLength)
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		assert.True(t, pattern.MatchString(code), "code %q must be uppercase alphanumeric", code)
		seen[code] = true
	}
	// 200 draws from a 36^6 namespace should essentially never collide
	assert.Greater(t, len(seen), 195)
}
