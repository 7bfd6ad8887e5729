package gwt

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var treeLoggerPrefixes = []struct {
	prefix string
	level  zapcore.Level
}{
	{"[ERROR]", zapcore.ErrorLevel},
	{"[WARN]", zapcore.WarnLevel},
	{"[INFO]", zapcore.InfoLevel},
	{"[DEBUG]", zapcore.DebugLevel},
	{"[TRACE]", zapcore.DebugLevel},
	{"[SPAM]", zapcore.DebugLevel},
}

// lineLevel returns the level of a GWT tree logger line, or def when the line
// carries no level marker.
func lineLevel(line string, def zapcore.Level) zapcore.Level {
	s := strings.TrimLeft(line, " \t")
	for _, p := range treeLoggerPrefixes {
		if strings.HasPrefix(s, p.prefix) {
			return p.level
		}
	}
	return def
}

// pumpLines logs every line read from r until EOF.
func pumpLines(r io.Reader, log *zap.Logger, def zapcore.Level) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if ce := log.Check(lineLevel(line, def), line); ce != nil {
			ce.Write()
		}
	}
	// Drain whatever is left after an over-long line so the child never blocks.
	_, _ = io.Copy(io.Discard, r)
}
