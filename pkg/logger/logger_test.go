package logger

import "testing"

type recordedLine struct {
	level   string
	message string
	keyvals []any
}

type recorder struct {
	lines []recordedLine
}

func (r *recorder) record(level, message string, keyvals []any) {
	r.lines = append(r.lines, recordedLine{level: level, message: message, keyvals: keyvals})
}

func (r *recorder) Log(m string, kv ...any)   { r.record("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.record("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any)  { r.record("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any)  { r.record("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.record("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.record("fatal", m, kv) }

func TestLoggerWithoutInitIsNoop(t *testing.T) {
	singleton = nil
	Info("ignored", "key", "value")
	Log("ignored")
}

func TestLoggerFansOutToAllInstances(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	defer func() { singleton = nil }()

	Info("document processed", "path", "a.pdf")
	Log("plain", "events", 3)
	Warn("degraded")

	for _, r := range []*recorder{a, b} {
		if len(r.lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(r.lines))
		}
		if r.lines[0].level != "info" || r.lines[0].message != "document processed" {
			t.Fatalf("unexpected first line %+v", r.lines[0])
		}
		if len(r.lines[1].keyvals) != 2 {
			t.Fatalf("Log should forward keyvals, got %v", r.lines[1].keyvals)
		}
		if r.lines[2].level != "warn" {
			t.Fatalf("unexpected level %q", r.lines[2].level)
		}
	}
}
