// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/text/currency"
)

// Config holds configuration knobs for the HTTP server and sessions.
type Config struct {
	HTTPAddr            string
	ShutdownTimeout     time.Duration
	SessionCap          int
	NotificationFeedCap int
	CheckoutTimeout     time.Duration
	StartTimeout        time.Duration
	Currency            currency.Unit
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func currencyenv(key string, def currency.Unit) currency.Unit {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	u, err := currency.ParseISO(v)
	if err != nil {
		return def
	}
	return u
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:     durenvs("SHUTDOWN_TIMEOUT", 15),
		SessionCap:          atoienv("SESSION_CAP", 1000),
		NotificationFeedCap: atoienv("NOTIFICATION_FEED_CAP", 128),
		CheckoutTimeout:     durenvs("CHECKOUT_TIMEOUT", 30),
		StartTimeout:        durenvs("START_TIMEOUT", 10),
		Currency:            currencyenv("CURRENCY", currency.USD),
	}
}
