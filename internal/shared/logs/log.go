package logs

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Hegemonie/internal/shared/config"
)

var (
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 初始化全局 logger：控制台彩色输出，配置了 file_dir 时另写一份 JSON 到滚动文件。
func Init(appName string, cfg config.LogConfig) error {
	level.SetLevel(parseLevel(cfg.Level))

	//    2026-01-28T10:00:00 INFO  mapd  server start  main.go:12
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)
	consoleSyncer := zapcore.Lock(os.Stderr)

	core := zapcore.NewCore(consoleEncoder, consoleSyncer, level)
	if cfg.FileDir != "" {
		var fileWriter io.Writer = &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize), // MB
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge), // days
			Compress:   cfg.Compress,
		}
		// 文件不带颜色，避免 ANSI 转义写进日志文件
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter), level),
		)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	l := zap.New(core, opts...).Named(appName)
	_ = logger.Sync()
	logger = l
	return nil
}

// SetLevel 动态调整日志级别（配置热更新时调用）。
func SetLevel(lvl string) {
	level.SetLevel(parseLevel(lvl))
}

// Logger 返回底层 zap.Logger（不带 helper 的 caller skip），交给 logx.NewZapLogger 等使用。
func Logger() *zap.Logger {
	return logger.WithOptions(zap.AddCallerSkip(-1))
}

func Sync() {
	_ = logger.Sync()
}

func parseLevel(s string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal 输出日志后退出程序（os.Exit(1)）。
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
