package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	for in, want := range map[string]string{
		"3.0.8":   "3.0.8",
		"v3.0.15": "3.0.15",
		" 3.1 ":   "3.1.0",
	} {
		v, err := ParseVersion(in)
		require.NoError(t, err, in)
		require.Equal(t, want, v.String(), in)
	}

	for _, in := range []string{"", "three", "3.0.x"} {
		_, err := ParseVersion(in)
		require.Error(t, err, in)
	}
}

func TestVersion_SupportsLogging(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"3.0.0", false},
		{"3.0.8", false},
		{"3.0.9", true},
		{"3.0.10", true},
		{"4.0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			require.Equal(t, tt.want, MustParseVersion(tt.version).Supports(FeatureLogging))
		})
	}

	require.False(t, MustParseVersion("9.9.9").Supports(Feature("unknown")))
	require.False(t, Version{}.Supports(FeatureLogging))
}

func TestVersion_Compare(t *testing.T) {
	require.Equal(t, -1, MustParseVersion("3.0.9").Compare(MustParseVersion("3.0.10")))
	require.Equal(t, 0, MustParseVersion("v3.0.9").Compare(MustParseVersion("3.0.9")))
}
