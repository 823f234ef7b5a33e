package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetEmpty(t *testing.T) {
	set, err := ParseSet(nil)
	require.NoError(t, err)
	assert.Empty(t, set)

	set, err = ParseSet([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestParseSetOrderedByID(t *testing.T) {
	set, err := ParseSet([]byte(`{"node": {"version": "18"}, "go": {}, "aws-cli": {}}`))
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, "aws-cli", set[0].ID)
	assert.Equal(t, "go", set[1].ID)
	assert.Equal(t, "node", set[2].ID)
}

func TestParseSetMalformedDocument(t *testing.T) {
	_, err := ParseSet([]byte(`["not", "a", "map"]`))
	assert.Error(t, err)
}

func TestStringOption(t *testing.T) {
	set, err := ParseSet([]byte(`{"node": {"version": "18"}, "java": {"version": 21}, "go": {}}`))
	require.NoError(t, err)

	byID := map[string]Feature{}
	for _, f := range set {
		byID[f.ID] = f
	}
	// Explicit version is used verbatim, no fallback resolution.
	assert.Equal(t, "18", byID["node"].Version("lts"))
	// Numeric versions are accepted.
	assert.Equal(t, "21", byID["java"].Version("17"))
	// Absent version falls back to the feature default sentinel.
	assert.Equal(t, "latest", byID["go"].Version("latest"))
}

func TestBoolOption(t *testing.T) {
	set, err := ParseSet([]byte(`{"python": {"installTools": false, "installJupyter": "true"}}`))
	require.NoError(t, err)
	f := set[0]
	assert.False(t, f.BoolOption("installTools", true))
	assert.True(t, f.BoolOption("installJupyter", false))
	assert.True(t, f.BoolOption("missing", true))
}
