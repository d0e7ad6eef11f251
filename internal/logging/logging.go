package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Production config writing to stderr so log
// lines never mix with report output on stdout; debug switches to the
// development encoder at Debug level.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		config := zap.NewDevelopmentConfig()
		config.OutputPaths = []string{"stderr"}
		return config.Build()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	return config.Build()
}

// NewSugared returns the sugared form of New.
func NewSugared(debug bool) (*zap.SugaredLogger, error) {
	logger, err := New(debug)
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
