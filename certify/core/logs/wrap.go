package logs

import (
	"github.com/Trinoooo/collatz_cert/certify/logs"
	"github.com/Trinoooo/collatz_cert/consts"
	"go.uber.org/zap"
)

var commonFields = []zap.Field{
	zap.String(consts.Subsystem, consts.Engine),
}

var engineLogger *zap.Logger

func init() {
	engineLogger = logs.Logger.With(commonFields...)
}

func Info(msg string, fields ...zap.Field) {
	engineLogger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	engineLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	engineLogger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	engineLogger.Fatal(msg, fields...)
}
