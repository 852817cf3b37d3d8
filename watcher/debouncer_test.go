package watcher

import (
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []DebouncedEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func Test_Debouncer_SingleEvent(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/index.php", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batch))
	}
	if batch[0].Path != "/index.php" {
		t.Errorf("expected path '/index.php', got '%s'", batch[0].Path)
	}
	if batch[0].Op != OpWrite {
		t.Errorf("expected write, got %s", batch[0].Op)
	}
}

func Test_Debouncer_MergesOperations(t *testing.T) {
	tests := []struct {
		name string
		ops  []EventOp
		want EventOp
	}{
		{"create then write stays create", []EventOp{OpCreate, OpWrite}, OpCreate},
		{"remove then create is a write", []EventOp{OpRemove, OpCreate}, OpWrite},
		{"write then remove is a remove", []EventOp{OpWrite, OpRemove}, OpRemove},
		{"latest wins otherwise", []EventOp{OpWrite, OpRename}, OpRename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDebouncer(testInterval)
			for _, op := range tt.ops {
				d.Add("/index.php", op)
			}

			batch := receiveBatch(t, d, 500*time.Millisecond)
			if len(batch) != 1 {
				t.Fatalf("expected 1 merged event, got %d", len(batch))
			}
			if batch[0].Op != tt.want {
				t.Errorf("expected %s, got %s", tt.want, batch[0].Op)
			}
		})
	}
}

func Test_Debouncer_BatchIsSorted(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/index.php", OpWrite)
	d.Add("/utils/helpers.php", OpCreate)
	d.Add("/README.md", OpRemove)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	expectedPaths := []string{"/README.md", "/index.php", "/utils/helpers.php"}
	if len(batch) != len(expectedPaths) {
		t.Fatalf("expected %d events, got %d", len(expectedPaths), len(batch))
	}
	for i, expected := range expectedPaths {
		if batch[i].Path != expected {
			t.Errorf("event[%d]: expected path '%s', got '%s'", i, expected, batch[i].Path)
		}
	}
}

func Test_Debouncer_TimerReset(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/index.php", OpWrite)
	time.Sleep(testInterval / 2)
	d.Add("/about.php", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 2 {
		t.Fatalf("expected 2 events in single batch, got %d", len(batch))
	}
}

func Test_Debouncer_Stop(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/index.php", OpWrite)
	d.Stop()
	d.Add("/about.php", OpWrite)

	select {
	case batch := <-d.Output():
		t.Fatalf("expected no batch after stop, got %v", batch)
	case <-time.After(4 * testInterval):
	}
}
