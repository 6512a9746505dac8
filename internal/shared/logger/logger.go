package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New cria o logger padrão dos serviços do ledger.
// Em env "local" usa o formato de desenvolvimento; LOG_LEVEL sobrescreve o nível.
func New(serviceName string, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if lv := os.Getenv("LOG_LEVEL"); lv != "" {
		if parsed, err := zapcore.ParseLevel(lv); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	// serviço e env entram como campos padrão de todas as linhas
	l, err := cfg.Build(
		zap.Fields(
			zap.String("service", serviceName),
			zap.String("env", env),
		),
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}
