package config

import (
	"os"
	"time"
)

const (
	sessionSecretVar = "SESSION_SECRET"
	sessionTTLVar    = "SESSION_TTL"
)

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionSecret returns the HMAC secret used to sign session tokens.
// An empty value is a deployment error and aborts startup.
func (Session) GetSessionSecret() string {
	return os.Getenv(sessionSecretVar)
}

// GetSessionTTL returns the lifetime of a session token. The TTL is
// renewed on every response (sliding expiration).
func (Session) GetSessionTTL() time.Duration {
	ttl, err := time.ParseDuration(GetEnv(sessionTTLVar, "1h"))
	if err != nil || ttl <= 0 {
		return time.Hour
	}
	return ttl
}
