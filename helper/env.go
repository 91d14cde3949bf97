package helper

import (
	"fmt"
	"os"
	"strings"

	"github.com/relloyd/housepipe/constants"
)

// ReadValueFromEnv will read the env var name and populate the supplied val.
// If the env var is not set then return an error.
func ReadValueFromEnv(name string, val *string) error {
	v := os.Getenv(name)
	if v != "" { // if the environment variable was set...
		*val = v // update the callers value
		return nil
	} else { // else there was no environment variable set...
		return fmt.Errorf("value for environment variable %v not found", name)
	}
}

// ReadValueFromEnvWithDefault will read the value of name from the environment into v.
// If it's not set then it will apply the supplied defaultValue and return v.
func ReadValueFromEnvWithDefault(name string, defaultValue string) (v string) {
	_ = ReadValueFromEnv(name, &v)
	if v == "" && defaultValue != "" { // if the environment variable is not set and we have been given a default value...
		v = defaultValue
	}
	return
}

// FlagNameToEnvVar forms an environment variable name from a CLI flag name using constants.EnvVarPrefix,
// e.g. clickhouse-url becomes HP_CLICKHOUSE_URL.
func FlagNameToEnvVar(name string) string {
	n := strings.TrimSpace(strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
	return fmt.Sprintf("%v_%v", constants.EnvVarPrefix, n)
}

// EnvWithOverride returns a copy of base with key=value set, replacing any existing entry for key.
func EnvWithOverride(base []string, key string, value string) []string {
	retval := make([]string, 0, len(base)+1)
	prefix := key + "="
	for _, kv := range base {
		if !strings.HasPrefix(kv, prefix) {
			retval = append(retval, kv)
		}
	}
	return append(retval, prefix+value)
}
