package log

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. Development mode defaults to DEBUG, anything
// else to INFO; levelEnv overrides both when it parses.
func New(levelEnv string, development bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	if !development {
		cfg.Development = false
		cfg.Encoding = "json"
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	if levelEnv != "" {
		if err := cfg.Level.UnmarshalText([]byte(levelEnv)); err != nil {
			fmt.Printf("bad LOG_LEVEL=%s, fallback to %s\n", levelEnv, cfg.Level.String())
		}
	}
	return cfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func Must(levelEnv string, development bool) *zap.Logger {
	l, err := New(levelEnv, development)
	if err != nil {
		panic(err)
	}
	return l
}

// Email logs an address as a SHA-256 digest so that logs never carry it in clear.
func Email(email string) zap.Field {
	sum := sha256.Sum256([]byte(email))
	return zap.String("user", hex.EncodeToString(sum[:]))
}
