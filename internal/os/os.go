package os

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GetRequiredInt64FromEnvVar attempts to parse a 64 bit integer from a string
// value retrieved from the specified environment variable. An error is
// returned if the string value is empty or cannot be parsed.
func GetRequiredInt64FromEnvVar(name string) (int64, error) {
	valStr := os.Getenv(name)
	if valStr == "" {
		return 0, errors.Errorf(
			"value not found for required environment variable %s",
			name,
		)
	}
	val, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		return 0, errors.Errorf(
			"value %q for environment variable %s was not parsable as an int64",
			valStr,
			name,
		)
	}
	return val, nil
}

// GetMultilineEnvVar retrieves the value of an environment variable having the
// specified name with every literal \n sequence replaced by a newline. This
// permits values such as PEM blocks to be supplied on a single line.
func GetMultilineEnvVar(name string) string {
	return strings.ReplaceAll(os.Getenv(name), `\n`, "\n")
}
