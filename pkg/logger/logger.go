package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const timeFormat = "02-01-2006 15:04:05.000"

var once sync.Once

// Init 初始化全局 zerolog logger：控制台输出、大写级别、短 caller。
// 只有第一次调用生效。
func Init(appName, logLevel string) {
	InitWithWriter(os.Stdout, appName, logLevel)
}

// InitWithWriter 与 Init 相同，但输出到 w（测试中使用）。
func InitWithWriter(w io.Writer, appName, logLevel string) {
	once.Do(func() {
		if appName == "" {
			appName = "huniya-ml"
		}
		level, ok := ParseLevel(logLevel)
		zerolog.SetGlobalLevel(level)

		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			if i := strings.LastIndexByte(file, '/'); i >= 0 {
				file = file[i+1:]
			}
			return file + ":" + strconv.Itoa(line)
		}

		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: timeFormat,
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("%-6s", i))
			},
			FieldsExclude: []string{"app"},
			PartsOrder: []string{
				"app",
				zerolog.TimestampFieldName,
				zerolog.LevelFieldName,
				zerolog.CallerFieldName,
				zerolog.MessageFieldName,
			},
		}).With().Timestamp().Caller().Str("app", appName).Logger()

		if !ok {
			log.Warn().Str("level", logLevel).Msg("unknown log level, defaulting to INFO")
		}
		log.Info().Str("level", level.String()).Msg("Logger initialized!")
	})
}

// ParseLevel 解析 DEBUG / INFO / WARN / ERROR / FATAL / PANIC / DISABLED（不区分大小写）。
// 空串或未知值返回 (InfoLevel, false)。
func ParseLevel(s string) (zerolog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zerolog.DebugLevel, true
	case "INFO":
		return zerolog.InfoLevel, true
	case "WARN", "WARNING":
		return zerolog.WarnLevel, true
	case "ERROR":
		return zerolog.ErrorLevel, true
	case "FATAL":
		return zerolog.FatalLevel, true
	case "PANIC":
		return zerolog.PanicLevel, true
	case "DISABLED":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
