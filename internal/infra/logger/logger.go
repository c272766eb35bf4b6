package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New はGO_ENVに合わせてzapのloggerを作る。
// production以外は開発用（色付き・debugレベル）。
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
