package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{in: "DEBUG", want: zerolog.DebugLevel, ok: true},
		{in: "info", want: zerolog.InfoLevel, ok: true},
		{in: " warn ", want: zerolog.WarnLevel, ok: true},
		{in: "ERROR", want: zerolog.ErrorLevel, ok: true},
		{in: "DISABLED", want: zerolog.Disabled, ok: true},
		{in: "", want: zerolog.InfoLevel, ok: false},
		{in: "verbose", want: zerolog.InfoLevel, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestInitWithWriter(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	var buf bytes.Buffer
	InitWithWriter(&buf, "huniya-ml-test", "INFO")
	assert.Contains(t, buf.String(), "huniya-ml-test")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "Logger initialized!")
	assert.Contains(t, buf.String(), "logger.go:")
}
