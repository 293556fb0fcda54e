package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	LogMaxSize    = 64 // megabytes
	LogMaxBackups = 8
	LogMaxAge     = 14 // days
)

// NewLog returns a logger writing to <dir><name>.log, rotated by size.
func NewLog(dir, name string) *zap.SugaredLogger {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		panic(err)
	}
	rw := &lumberjack.Logger{
		Filename:   fmt.Sprintf("%s%s.log", dir, name),
		MaxSize:    LogMaxSize,
		MaxBackups: LogMaxBackups,
		MaxAge:     LogMaxAge,
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(rw), zap.DebugLevel)
	return zap.New(core).Named(name).Sugar()
}
