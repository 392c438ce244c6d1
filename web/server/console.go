package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jba/slog/withsupport"
)

// ConsoleMessage is one log line destined for the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// ConsoleHandler is a slog.Handler that forwards log records to a
// channel so render progress shows up in the web UI console. Sends
// never block: when the channel is full or nil the record is dropped,
// keeping a slow browser from stalling the render.
//
// Structure follows the slog handler guide:
// https://github.com/golang/example/blob/master/slog-handler-guide/README.md
type ConsoleHandler struct {
	level slog.Leveler
	with  *withsupport.GroupOrAttrs
	out   chan<- ConsoleMessage
}

// NewConsoleHandler creates a handler that sends records at or above
// level to out
func NewConsoleHandler(level slog.Leveler, out chan<- ConsoleMessage) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{level: level, out: out}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	return &ConsoleHandler{h.level, h.with.WithGroup(name), h.out}
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConsoleHandler{h.level, h.with.WithAttrs(attrs), h.out}
}

func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	groups := h.with.Apply(func(groups []string, a slog.Attr) {
		appendAttr(&b, groups, a)
	})
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, groups, a)
		return true
	})

	msg := ConsoleMessage{
		Message:   b.String(),
		Timestamp: r.Time,
		Level:     levelName(r.Level),
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if h.out != nil {
		select {
		case h.out <- msg:
		default: // Channel full, drop the message
		}
	}
	return nil
}

// appendAttr formats one attribute as " key=value", prefixing the key
// with its open groups
func appendAttr(b *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		gs := groups
		if a.Key != "" {
			gs = append(groups, a.Key)
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, gs, ga)
		}
		return
	}

	b.WriteString(" ")
	for _, g := range groups {
		b.WriteString(g)
		b.WriteString(".")
	}
	fmt.Fprintf(b, "%s=%v", a.Key, a.Value)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
