package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，未初始化前为 no-op logger
var Log = zap.NewNop()

// Init 初始化全局日志
// dev 环境使用彩色的开发配置，其他环境输出 JSON
func Init(env string, debug bool) error {
	var cfg zap.Config
	if env == "" || env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync 刷新缓冲区
func Sync() {
	_ = Log.Sync()
}
