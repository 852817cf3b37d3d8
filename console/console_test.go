package console

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func Test_Sink_AppendKeepsOrder(t *testing.T) {
	s := NewSinkWithClock(fixedClock())

	s.Append(KindInfo, "Running PHP...")
	s.Append(KindOutput, "Execution completed")
	s.Append(KindError, "boom")

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Kind != KindInfo || msgs[1].Kind != KindOutput || msgs[2].Kind != KindError {
		t.Errorf("unexpected order: %+v", msgs)
	}
	if !msgs[2].Timestamp.After(msgs[0].Timestamp) {
		t.Error("expected timestamps to follow append order")
	}
}

func Test_Sink_ClearIsIdempotent(t *testing.T) {
	s := NewSink()
	for i := 0; i < 100; i++ {
		s.Append(KindOutput, "line")
	}

	s.Clear()
	if got := s.Messages(); len(got) != 0 {
		t.Fatalf("expected empty log after clear, got %d", len(got))
	}

	s.Clear()
	if s.Len() != 0 {
		t.Error("expected second clear to leave the log empty")
	}
}

func Test_Sink_MessagesIsACopy(t *testing.T) {
	s := NewSink()
	s.Append(KindInfo, "original")

	msgs := s.Messages()
	msgs[0].Text = "mutated"

	if s.Messages()[0].Text != "original" {
		t.Error("expected stored message to be unaffected")
	}
}

func Test_Format_PlainText(t *testing.T) {
	s := NewSinkWithClock(fixedClock())
	s.Append(KindQuery, "SELECT 1")

	out := Format(s.Messages())

	if !strings.Contains(out, "[09:30:01] query  SELECT 1") {
		t.Errorf("unexpected format: %q", out)
	}
	if Format(nil) != "Console is empty." {
		t.Error("expected empty marker")
	}
}

func Test_Render_IncludesText(t *testing.T) {
	s := NewSinkWithClock(fixedClock())
	s.Append(KindError, "SQL Error: no such table")

	out := Render(s.Messages())

	if !strings.Contains(out, "SQL Error: no such table") {
		t.Errorf("expected message text in render, got %q", out)
	}
}
