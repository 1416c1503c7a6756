// Package debug builds the bridge's logger. Output is teed between a log
// file under the instance's data root and the host's own log callback when
// one is provided. Logging must never take the audio path down, so every
// failure here degrades to a no-op logger instead of returning an error.
package debug

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "synthbridge.log"

// NewLogger returns a logger writing to <dir>/synthbridge.log and, when
// hostLog is non-nil, to the host's log sink. If neither destination can
// be set up the returned logger discards everything.
func NewLogger(dir string, hostLog func(string)) *zap.Logger {
	var cores []zapcore.Core

	if dir != "" {
		if core := fileCore(dir); core != nil {
			cores = append(cores, core)
		}
	}
	if hostLog != nil {
		enc := zapcore.NewConsoleEncoder(consoleConfig())
		cores = append(cores, &hostCore{
			LevelEnabler: zapcore.InfoLevel,
			enc:          enc,
			send:         hostLog,
		})
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}

func fileCore(dir string) zapcore.Core {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil
	}
	enc := zapcore.NewConsoleEncoder(consoleConfig())
	return zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.DebugLevel)
}

func consoleConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// hostCore forwards formatted entries to the host's log callback. The host
// sink takes whole lines, so each entry is encoded then trimmed of its
// trailing newline.
type hostCore struct {
	zapcore.LevelEnabler
	enc  zapcore.Encoder
	send func(string)
}

func (c *hostCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &hostCore{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		send:         c.send,
	}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *hostCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *hostCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return nil
	}
	line := buf.String()
	buf.Free()
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	c.send(line)
	return nil
}

func (c *hostCore) Sync() error { return nil }
