package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require := require.New(t)
	require.NoError(Default().Validate())
}

func TestValidateRejectsBadColumnBits(t *testing.T) {
	require := require.New(t)
	c := Default()
	c.NumColumnBits = 0
	require.Error(c.Validate())
}

func TestValidateRejectsZeroArity(t *testing.T) {
	require := require.New(t)
	c := Default()
	c.MaxArity = 0
	require.Error(c.Validate())
}

func TestApplyOverlayCoercesStrings(t *testing.T) {
	require := require.New(t)
	c := Default()
	c, err := c.ApplyOverlay(map[string]interface{}{
		"numColumnBits": "20",
		"onlyCountInds": "true",
		"maxArity":      3,
	})
	require.NoError(err)
	require.Equal(20, c.NumColumnBits)
	require.True(c.OnlyCountInds)
	require.Equal(3, c.MaxArity)
}

func TestApplyOverlayIgnoresUnknownKeys(t *testing.T) {
	require := require.New(t)
	c := Default()
	c, err := c.ApplyOverlay(map[string]interface{}{"notAThing": "x"})
	require.NoError(err)
	require.Equal(Default(), c)
}

func TestBinderResolvesExcludeVoid(t *testing.T) {
	require := require.New(t)
	c := Default()
	c.CandidateGenerator = GeneratorBinder
	c.IsExcludeVoidIndsFromCandidateGeneration = false
	resolved := c.Resolved()
	require.True(resolved.IsExcludeVoidIndsFromCandidateGeneration)
}

func TestLoadYAML(t *testing.T) {
	require := require.New(t)
	c, err := LoadYAML([]byte("maxArity: 4\nonlyCountInds: true\n"))
	require.NoError(err)
	require.Equal(4, c.MaxArity)
	require.True(c.OnlyCountInds)
	// unspecified fields keep Default()'s values
	require.Equal(Default().NumColumnBits, c.NumColumnBits)
}
