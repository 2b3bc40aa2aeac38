package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndMatches(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, Matches(hash, "secret1"))
	assert.False(t, Matches(hash, "secret2"))
	assert.False(t, Matches("", "secret1"))
	assert.False(t, Matches("not-a-hash", "secret1"))
}
