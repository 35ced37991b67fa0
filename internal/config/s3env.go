package config

import (
	"os"
	"strconv"
	"time"
)

// S3Settings holds object storage connection settings.
type S3Settings struct {
	Endpoint          string
	Region            string
	AccessKey         string
	SecretKey         string
	PathStyle         bool
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// LoadS3Settings reads object storage settings from the environment.
// If a variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - STACKPLAN_S3_ENDPOINT (default: AWS endpoint for the region)
//   - STACKPLAN_S3_REGION (default: region)
//   - STACKPLAN_S3_ACCESS_KEY, STACKPLAN_S3_SECRET_KEY (default: AWS credential chain)
//   - STACKPLAN_S3_PATH_STYLE (default: false)
//   - STACKPLAN_S3_RETRY_MAX_ATTEMPTS (default: 3)
//   - STACKPLAN_S3_RETRY_INITIAL_DELAY (default: 200ms)
func LoadS3Settings(region string) *S3Settings {
	if r := os.Getenv("STACKPLAN_S3_REGION"); r != "" {
		region = r
	}
	return &S3Settings{
		Endpoint:          os.Getenv("STACKPLAN_S3_ENDPOINT"),
		Region:            region,
		AccessKey:         os.Getenv("STACKPLAN_S3_ACCESS_KEY"),
		SecretKey:         os.Getenv("STACKPLAN_S3_SECRET_KEY"),
		PathStyle:         parseBool("STACKPLAN_S3_PATH_STYLE", false),
		RetryMaxAttempts:  parseInt("STACKPLAN_S3_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("STACKPLAN_S3_RETRY_INITIAL_DELAY", 200*time.Millisecond),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func parseBool(envVar string, defaultVal bool) bool {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
