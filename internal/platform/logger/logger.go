package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text", "":
		return FormatText, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", s)
	}
}

type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Writer destino; nil = stdout.
	Writer io.Writer
	// Now permite fijar el reloj en tests.
	Now func() time.Time
}

// output es compartido por el logger raíz y todos sus derivados (With).
type output struct {
	mu sync.Mutex
	w  io.Writer
}

type fieldLogger struct {
	out    *output
	level  Level
	format Format
	now    func() time.Time
	base   map[string]any
}

func New(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = FormatText
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	base := map[string]any{}
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}

	return &fieldLogger{
		out:    &output{w: w},
		level:  opts.Level,
		format: format,
		now:    now,
		base:   base,
	}
}

// Nop descarta todo. Útil en tests y como default de componentes opcionales.
func Nop() Logger {
	return nopLogger{}
}

func (l *fieldLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}

	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		merged[k] = v
	}

	// comparte output, level y format
	return &fieldLogger{
		out:    l.out,
		level:  l.level,
		format: l.format,
		now:    l.now,
		base:   merged,
	}
}

func (l *fieldLogger) Debug(msg string, fields map[string]any) { l.log(Debug, msg, fields) }
func (l *fieldLogger) Info(msg string, fields map[string]any)  { l.log(Info, msg, fields) }
func (l *fieldLogger) Warn(msg string, fields map[string]any)  { l.log(Warn, msg, fields) }
func (l *fieldLogger) Error(msg string, fields map[string]any) { l.log(Error, msg, fields) }

func (l *fieldLogger) log(lvl Level, msg string, fields map[string]any) {
	if lvl < l.level {
		return
	}

	entry := make(map[string]any, len(l.base)+len(fields)+3)
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		entry[k] = v
	}
	entry["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = lvl.String()
	entry["msg"] = msg

	var line string
	switch l.format {
	case FormatJSON:
		b, err := json.Marshal(entry)
		if err != nil {
			b, _ = json.Marshal(map[string]any{
				"ts":    entry["ts"],
				"level": entry["level"],
				"msg":   msg,
				"error": "log fields not serializable: " + err.Error(),
			})
		}
		line = string(b)
	default:
		line = formatText(entry)
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	_, _ = io.WriteString(l.out.w, line+"\n")
}

func formatText(m map[string]any) string {
	// keys ordenadas: salida estable (útil en tests/logs)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprintf("%v", m[k])
		if strings.ContainsAny(v, " \t\n\"=") {
			v = fmt.Sprintf("%q", v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

type nopLogger struct{}

func (n nopLogger) With(map[string]any) Logger   { return n }
func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
