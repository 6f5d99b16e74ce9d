package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"autofill-agent/internal/application/port/output"
)

var _ output.ConfigPort = (*EnvService)(nil)

const (
	KeyHeadless             = "AUTOFILL_HEADLESS"
	KeyBrowserTimeout       = "AUTOFILL_BROWSER_TIMEOUT"
	KeyLogLevel             = "AUTOFILL_LOG_LEVEL"
	KeyLogDir               = "AUTOFILL_LOG_DIR"
	KeyPatternsFile         = "AUTOFILL_PATTERNS_FILE"
	KeyTrackerURL           = "AUTOFILL_TRACKER_URL"
	KeyLLMAPIKey            = "AUTOFILL_LLM_API_KEY"
	KeyLLMModel             = "AUTOFILL_LLM_MODEL"
	KeyLLMBaseURL           = "AUTOFILL_LLM_BASE_URL"
	KeyHTTPAddr             = "AUTOFILL_HTTP_ADDR"
	KeyRetryDelay           = "AUTOFILL_RETRY_DELAY"
	KeyVerifyDelay          = "AUTOFILL_VERIFY_DELAY"
	KeyValidationDelay      = "AUTOFILL_VALIDATION_DELAY"
	KeyDropdownPollAttempts = "AUTOFILL_DROPDOWN_POLL_ATTEMPTS"
	KeyDropdownPollDelay    = "AUTOFILL_DROPDOWN_POLL_DELAY"
)

type EnvService struct{}

func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file found, using process environment")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDuration accepts Go duration strings ("750ms") and bare integers as milliseconds.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
