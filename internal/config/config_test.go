package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("BOOKING_API_URL", "http://127.0.0.1:8000/api/v1/")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"REDIS_ADDR", "SESSION_TTL_HOURS", "OPEN_TIME", "CLOSE_TIME", "HTTP_ADDR"} {
		t.Setenv(key, "")
	}

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", c.TelegramToken)
	assert.Equal(t, "http://127.0.0.1:8000/api/v1", c.BookingAPIURL) // trailing slash trimmed
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
	assert.Equal(t, "08:00", c.OpenTime)
	assert.Equal(t, "23:00", c.CloseTime)
	assert.Equal(t, ":8080", c.HTTPAddr)
}

func TestFromEnvMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("BOOKING_API_URL", "http://127.0.0.1:8000/api/v1")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvMissingAPIURL(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("BOOKING_API_URL", "")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvOperatingHours(t *testing.T) {
	setRequired(t)
	t.Setenv("OPEN_TIME", "10:00")
	t.Setenv("CLOSE_TIME", "22:00")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "10:00", c.OpenTime)
	assert.Equal(t, "22:00", c.CloseTime)
}

func TestFromEnvBadOperatingHours(t *testing.T) {
	setRequired(t)
	t.Setenv("OPEN_TIME", "25:00")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvInvertedOperatingHours(t *testing.T) {
	setRequired(t)
	t.Setenv("OPEN_TIME", "22:00")
	t.Setenv("CLOSE_TIME", "08:00")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvSessionTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL_HOURS", "0")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), c.SessionTTL)

	t.Setenv("SESSION_TTL_HOURS", "abc")
	_, err = FromEnv()
	assert.Error(t, err)
}
