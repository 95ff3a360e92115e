package pinlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SlogHandler routes log/slog records into a Logger, so code written against
// slog ends up in the same store, listeners and exports.
//
// Attributes are appended to the message as key=value pairs. A "tag"
// attribute overrides the handler's tag and an "error" or "err" attribute
// holding an error becomes the record's cause.
type SlogHandler struct {
	l      *Logger
	tag    string
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler returns a handler logging under tag.
func NewSlogHandler(l *Logger, tag string) *SlogHandler {
	return &SlogHandler{l: l, tag: tag}
}

func (h *SlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// levelFromSlog maps slog's open-ended levels onto the four record levels.
func levelFromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return ERROR
	case l >= slog.LevelWarn:
		return WARN
	case l >= slog.LevelInfo:
		return INFO
	default:
		return DEBUG
	}
}

func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	tag := h.tag
	var cause error
	var sb strings.Builder
	sb.WriteString(r.Message)

	add := func(key string, v slog.Value) {
		v = v.Resolve()
		switch key {
		case "tag":
			if v.Kind() == slog.KindString {
				tag = v.String()
				return
			}
		case "error", "err":
			if err, ok := v.Any().(error); ok {
				cause = err
				return
			}
		}
		fmt.Fprintf(&sb, " %s=%v", key, v.Any())
	}

	for _, a := range h.attrs {
		add(a.Key, a.Value)
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		add(groupedKey(prefix, a.Key), a.Value)
		return true
	})

	h.l.log(tag, sb.String(), levelFromSlog(r.Level), cause)
	return nil
}

// groupedKey qualifies key with the open groups. The tag and error keys stay
// bare so they keep their meaning inside groups.
func groupedKey(prefix, key string) string {
	switch key {
	case "tag", "error", "err":
		return key
	}
	return prefix + key
}

func (h *SlogHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = groupedKey(prefix, a.Key)
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(h2.groups[:len(h2.groups):len(h2.groups)], name)
	return &h2
}
