package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "./logs/alphawolf.log"

// New builds the application logger: console output plus a rotated log file.
func New(opts ...Option) (*zap.Logger, error) {
	o := options{
		level:    zapcore.InfoLevel,
		filename: defaultLogFile,
	}
	for _, fn := range opts {
		fn(&o)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   o.filename,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), o.level),
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, o.level),
	)

	return zap.New(core), nil
}

type options struct {
	level    zapcore.Level
	filename string
}

type Option func(*options)

func WithLevel(l zapcore.Level) Option {
	return func(o *options) { o.level = l }
}

func WithFile(name string) Option {
	return func(o *options) { o.filename = name }
}
