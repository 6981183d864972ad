package zlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志初始化参数
type Options struct {
	Level      string
	LogPath    string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Console    bool
}

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init 根据配置构建全局 logger，LogPath 为空时只输出到控制台
func Init(opts Options) error {
	level := zapcore.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if opts.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0o755); err != nil {
			return err
		}
		writer := &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    defaultInt(opts.MaxSize, 100),
			MaxBackups: defaultInt(opts.MaxBackups, 7),
			MaxAge:     defaultInt(opts.MaxAge, 30),
			LocalTime:  true,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level))
	}
	if opts.Console || opts.LogPath == "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	SetLogger(l)
	return nil
}

// SetLogger 替换全局 logger（测试中可传入 zaptest / observer logger）
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L 返回当前全局 logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	L().Fatal(msg, fields...)
}

// Sync 刷新缓冲区，进程退出前调用
func Sync() error {
	return L().Sync()
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
