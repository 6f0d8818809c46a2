package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerOutputPath is where all application log output goes.
const loggerOutputPath = "stderr"

// NewApplicationLogger constructs a console logger that prints the message
// alone: timestamps, levels, and callers are dropped so fatal reports read
// like ordinary command-line errors.
func NewApplicationLogger() (*zap.Logger, error) {
	loggerConfiguration := zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LineEnding:  zapcore.DefaultLineEnding,
			EncodeLevel: zapcore.CapitalLevelEncoder,
		},
		OutputPaths:       []string{loggerOutputPath},
		ErrorOutputPaths:  []string{loggerOutputPath},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	return loggerConfiguration.Build()
}
