package config

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the value of an environment variable, or fallback when the
// variable is unset or empty.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool parses an environment variable as a boolean
func GetEnvAsBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetEnvAsInt parses an environment variable as an integer
func GetEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetEnvAsInt64 parses an environment variable as an int64, used for
// centavo amounts.
func GetEnvAsInt64(key string, fallback int64) int64 {
	value, err := strconv.ParseInt(GetEnv(key, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

// GetEnvAsSlice splits an environment variable on sep
func GetEnvAsSlice(key string, fallback []string, sep string) []string {
	value := GetEnv(key, "")
	if value == "" {
		return fallback
	}
	return strings.Split(value, sep)
}
