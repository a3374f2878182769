package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one header line per record followed by indented
// "- key: value" lines. Subject fields (component, asset, stage) move into
// the header.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	color  bool
	source bool
	prefix string
	preset []field
}

type field struct {
	key string
	val slog.Value
}

type subject struct {
	component string
	asset     string
	stage     string
}

func newConsoleHandler(w io.Writer, level slog.Leveler, color, source bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, color: color, source: source}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, len(h.preset), len(h.preset)+record.NumAttrs())
	copy(fields, h.preset)
	record.Attrs(func(a slog.Attr) bool {
		fields = appendField(fields, h.prefix, a)
		return true
	})
	fields = lastWins(fields)
	subj := takeSubject(fields)

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(128 + 32*len(fields))
	buf.WriteString(formatTimestamp(ts))
	buf.WriteByte(' ')
	buf.WriteString(h.levelLabel(record.Level))
	if subj.component != "" {
		buf.WriteString(" [" + subj.component + "]")
	}
	if s := FormatSubject(subj.asset, subj.stage); s != "" {
		buf.WriteString(" " + s)
	}
	buf.WriteString(" - ")
	buf.WriteString(msg)
	if h.source && record.PC != 0 {
		if src := record.Source(); src != nil && src.File != "" {
			buf.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}

	verbose := record.Level < slog.LevelInfo
	for _, f := range fields {
		if hiddenField(f.key, verbose) {
			continue
		}
		buf.WriteString("\n    - ")
		buf.WriteString(f.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(f.val))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = make([]field, len(h.preset), len(h.preset)+len(attrs))
	copy(next.preset, h.preset)
	for _, a := range attrs {
		next.preset = appendField(next.preset, h.prefix, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = joinKey(h.prefix, name)
	return &next
}

// hiddenField drops keys already shown in the header. At debug level the
// job and correlation ids stay visible.
func hiddenField(key string, verbose bool) bool {
	switch key {
	case FieldComponent, FieldAsset, FieldStage:
		return true
	case FieldJobID, FieldCorrelationID:
		return !verbose
	}
	return false
}

func takeSubject(fields []field) subject {
	var s subject
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			s.component = attrString(f.val)
		case FieldAsset:
			s.asset = attrString(f.val)
		case FieldStage:
			s.stage = attrString(f.val)
		}
	}
	return s
}

// FormatSubject renders the "file (stage)" part of a console header.
func FormatSubject(asset, stage string) string {
	asset = strings.TrimSpace(asset)
	stage = strings.TrimSpace(stage)
	switch {
	case asset != "" && stage != "":
		return filepath.Base(asset) + " (" + stage + ")"
	case asset != "":
		return filepath.Base(asset)
	default:
		return stage
	}
}

func appendField(dst []field, prefix string, a slog.Attr) []field {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		next := prefix
		if a.Key != "" {
			next = joinKey(prefix, a.Key)
		}
		for _, member := range v.Group() {
			dst = appendField(dst, next, member)
		}
		return dst
	}
	key := joinKey(prefix, a.Key)
	if key == "" {
		return dst
	}
	return append(dst, field{key: key, val: v})
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

// lastWins collapses repeated keys in place, keeping the first position and
// the last value.
func lastWins(fields []field) []field {
	if len(fields) < 2 {
		return fields
	}
	index := make(map[string]int, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if i, ok := index[f.key]; ok {
			out[i].val = f.val
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGray   = "\x1b[90m"
)

func (h *consoleHandler) levelLabel(level slog.Level) string {
	var label, color string
	switch {
	case level >= slog.LevelError:
		label, color = "ERROR", ansiRed
	case level >= slog.LevelWarn:
		label, color = "WARN", ansiYellow
	case level >= slog.LevelInfo:
		label, color = "INFO", ansiCyan
	default:
		label, color = "DEBUG", ansiGray
	}
	if !h.color {
		return label
	}
	return color + label + ansiReset
}
