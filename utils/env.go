package utils

import (
	"os"
	"strconv"
	"time"
)

func GetEnvVar(envVar string) string {
	value, found := os.LookupEnv(envVar)
	if !found {
		panic("Env var '" + envVar + "' not specified")
	}
	return value
}

func GetEnvVarWithDefault(envVar, defaultValue string) string {
	value, found := os.LookupEnv(envVar)
	if !found {
		return defaultValue
	}
	return value
}

func GetIntEnvVarWithDefault(envVar string, defaultValue int) int {
	value, found := os.LookupEnv(envVar)
	if !found {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		panic("Env var '" + envVar + "' is not an integer: " + value)
	}
	return parsed
}

func GetDurationEnvVarWithDefault(envVar string, defaultValue time.Duration) time.Duration {
	value, found := os.LookupEnv(envVar)
	if !found {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		panic("Env var '" + envVar + "' is not a duration: " + value)
	}
	return parsed
}
