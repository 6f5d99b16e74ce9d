package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvService_Getters(t *testing.T) {
	t.Setenv(KeyHeadless, "false")
	t.Setenv(KeyDropdownPollAttempts, "7")
	t.Setenv(KeyRetryDelay, "750ms")
	t.Setenv(KeyVerifyDelay, "40")
	t.Setenv(KeyLLMModel, "")
	t.Setenv("AUTOFILL_BROKEN_INT", "seven")

	e := &EnvService{}

	assert.False(t, e.GetBool(KeyHeadless, true))
	assert.True(t, e.GetBool("AUTOFILL_UNSET_BOOL", true))
	assert.Equal(t, 7, e.GetInt(KeyDropdownPollAttempts, 5))
	assert.Equal(t, 5, e.GetInt("AUTOFILL_BROKEN_INT", 5))
	assert.Equal(t, 750*time.Millisecond, e.GetDuration(KeyRetryDelay, time.Second))
	assert.Equal(t, 40*time.Millisecond, e.GetDuration(KeyVerifyDelay, time.Second))
	assert.Equal(t, time.Second, e.GetDuration("AUTOFILL_UNSET_DURATION", time.Second))
	assert.Equal(t, "openai/gpt-4o-mini", e.GetWithDefault(KeyLLMModel, "openai/gpt-4o-mini"))
}
