package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger for the given environment. Development gets a
// colored console encoder at debug level; everything else gets JSON at info.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewNamed builds a logger with the service name attached to every entry.
func NewNamed(env, service string) (*zap.Logger, error) {
	l, err := New(env)
	if err != nil {
		return nil, err
	}
	return l.Named(service).With(zap.String("service", service)), nil
}
