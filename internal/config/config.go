package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken string

	BookingAPIURL string

	RedisAddr  string
	SessionTTL time.Duration

	// Operating hours of the slot grid, "HH:MM".
	OpenTime  string
	CloseTime string

	HTTPAddr string
}

func FromEnv() (Config, error) {
	var c Config
	c.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	c.BookingAPIURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BOOKING_API_URL")), "/")

	c.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}

	c.SessionTTL = 12 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil || h < 0 {
			return c, fmt.Errorf("SESSION_TTL_HOURS: bad value %q", raw)
		}
		c.SessionTTL = time.Duration(h) * time.Hour
	}

	c.OpenTime = strings.TrimSpace(os.Getenv("OPEN_TIME"))
	if c.OpenTime == "" {
		c.OpenTime = "08:00"
	}
	c.CloseTime = strings.TrimSpace(os.Getenv("CLOSE_TIME"))
	if c.CloseTime == "" {
		c.CloseTime = "23:00"
	}
	for _, v := range []string{c.OpenTime, c.CloseTime} {
		if _, err := time.Parse("15:04", v); err != nil {
			return c, fmt.Errorf("operating hours: bad time %q", v)
		}
	}
	if c.OpenTime >= c.CloseTime {
		return c, fmt.Errorf("operating hours: OPEN_TIME %s must be before CLOSE_TIME %s", c.OpenTime, c.CloseTime)
	}

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}

	if c.TelegramToken == "" {
		return c, fmt.Errorf("TELEGRAM_BOT_TOKEN is empty")
	}
	if c.BookingAPIURL == "" {
		return c, fmt.Errorf("BOOKING_API_URL is empty")
	}

	return c, nil
}
