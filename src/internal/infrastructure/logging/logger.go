package logging

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
)

const projectName = "giftee"

// L 全域 logger（New 之前為預設的 JSON info logger）
var L *zap.Logger

func init() {
	L = build(zapcore.InfoLevel, "json")
}

// New 根據配置建立 logger 並替換全域 L
func New(conf *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Log.Level)
	if err != nil {
		return nil, err
	}
	L = build(level, conf.Log.Encoding)
	return L, nil
}

func build(level zapcore.Level, encoding string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		index := strings.Index(caller.File, projectName)
		if index != -1 {
			enc.AppendString(caller.File[index:] + ":" + strconv.Itoa(caller.Line))
		} else {
			enc.AppendString(caller.TrimmedPath())
		}
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if encoding == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(os.Stdout),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}
