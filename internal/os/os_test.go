package os

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRequiredInt64FromEnvVar(t *testing.T) {
	const testEnvVarName = "FOO"
	testCases := []struct {
		name       string
		setup      func()
		assertions func(int64, error)
	}{
		{
			name: "value not set",
			setup: func() {
				os.Unsetenv(testEnvVarName)
			},
			assertions: func(_ int64, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "value not found for")
				require.Contains(t, err.Error(), testEnvVarName)
			},
		},
		{
			name: "value not parsable as int64",
			setup: func() {
				os.Setenv(testEnvVarName, "foo")
			},
			assertions: func(_ int64, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "was not parsable as an int64")
			},
		},
		{
			name: "value does not fit in 32 bits",
			setup: func() {
				os.Setenv(testEnvVarName, "8589934592")
			},
			assertions: func(val int64, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(8589934592), val)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.setup()
			testCase.assertions(GetRequiredInt64FromEnvVar(testEnvVarName))
		})
	}
}

func TestGetMultilineEnvVar(t *testing.T) {
	const testEnvVarName = "FOO"
	os.Setenv(testEnvVarName, `-----BEGIN KEY-----\nabc\n-----END KEY-----`)
	defer os.Unsetenv(testEnvVarName)
	require.Equal(
		t,
		"-----BEGIN KEY-----\nabc\n-----END KEY-----",
		GetMultilineEnvVar(testEnvVarName),
	)
}
