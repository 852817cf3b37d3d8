package index

import (
	"fmt"
	"testing"
	"time"
)

func newTestEntry(relPath string, lang string, size int64) *Entry {
	return &Entry{
		Path:         "/" + relPath,
		RelativePath: relPath,
		Language:     lang,
		SizeBytes:    size,
		LineCount:    10,
		UpdatedAt:    time.Now(),
	}
}

func Test_FileIndex_PutAndGet(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("config/database.php", "PHP", 1024))

	got := fi.Get("config/database.php")
	if got == nil {
		t.Fatal("expected to find entry, got nil")
	}
	if got.Language != "PHP" {
		t.Errorf("expected PHP, got %s", got.Language)
	}
	if got.Path != "/config/database.php" {
		t.Errorf("expected /config/database.php, got %s", got.Path)
	}
}

func Test_FileIndex_PutReplaces(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("index.php", "PHP", 10))
	fi.Put(newTestEntry("index.php", "PHP", 20))

	if fi.Count() != 1 {
		t.Fatalf("expected 1 entry, got %d", fi.Count())
	}
	if fi.Get("index.php").SizeBytes != 20 {
		t.Errorf("expected replaced entry, got size %d", fi.Get("index.php").SizeBytes)
	}
}

func Test_FileIndex_Remove(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("index.php", "PHP", 1024))
	fi.Remove("index.php")
	fi.Remove("missing.php")

	if fi.Count() != 0 {
		t.Errorf("expected 0 entries, got %d", fi.Count())
	}
	if fi.Get("index.php") != nil {
		t.Error("expected nil after removal")
	}
}

func Test_FileIndex_SearchByGlob_DoubleStarExtension(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("index.php", "PHP", 1024))
	fi.Put(newTestEntry("config/database.php", "PHP", 512))
	fi.Put(newTestEntry("assets/style.css", "CSS", 2048))
	fi.Put(newTestEntry("README.md", "Markdown", 256))

	results, err := fi.SearchByGlob("**/*.php", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 PHP files, got %d", len(results))
	}
	if results[0].RelativePath != "config/database.php" || results[1].RelativePath != "index.php" {
		t.Errorf("expected path order, got %s, %s", results[0].RelativePath, results[1].RelativePath)
	}
}

func Test_FileIndex_SearchByGlob_LeadingSlash(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("config/database.php", "PHP", 512))
	fi.Put(newTestEntry("index.php", "PHP", 512))

	results, err := fi.SearchByGlob("/config/*", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 file in config/, got %d", len(results))
	}
}

func Test_FileIndex_SearchByGlob_InvalidPattern(t *testing.T) {
	fi := NewFileIndex()
	_, err := fi.SearchByGlob("[invalid", 50)
	if err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func Test_FileIndex_TotalSizeAndLanguages(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("index.php", "PHP", 100))
	fi.Put(newTestEntry("lib/util.php", "PHP", 200))
	fi.Put(newTestEntry("assets/style.css", "CSS", 300))

	if fi.TotalSizeBytes() != 600 {
		t.Errorf("expected 600 bytes, got %d", fi.TotalSizeBytes())
	}
	counts := fi.LanguageCounts()
	if counts["PHP"] != 2 {
		t.Errorf("expected 2 PHP files, got %d", counts["PHP"])
	}
	if counts["CSS"] != 1 {
		t.Errorf("expected 1 CSS file, got %d", counts["CSS"])
	}
}

func Test_FileIndex_AllIsSorted(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("b.php", "PHP", 1))
	fi.Put(newTestEntry("a.php", "PHP", 1))
	fi.Put(newTestEntry("c/d.php", "PHP", 1))

	all := fi.All()
	want := []string{"a.php", "b.php", "c/d.php"}
	if len(all) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(all))
	}
	for i, e := range all {
		if e.RelativePath != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], e.RelativePath)
		}
	}
}

func Test_FileIndex_Clear(t *testing.T) {
	fi := NewFileIndex()
	fi.Put(newTestEntry("a.php", "PHP", 100))
	fi.Clear()

	if fi.Count() != 0 {
		t.Errorf("expected 0 after clear, got %d", fi.Count())
	}
	if len(fi.All()) != 0 {
		t.Error("expected no entries after clear")
	}
}

func Test_FileIndex_MaxResults(t *testing.T) {
	fi := NewFileIndex()
	for i := 0; i < 100; i++ {
		fi.Put(newTestEntry(fmt.Sprintf("pages/page%03d.php", i), "PHP", 100))
	}

	results, err := fi.SearchByGlob("**/*.php", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("expected 5 results, got %d", len(results))
	}
}

func Test_RelativePath(t *testing.T) {
	if got := RelativePath("/config/database.php"); got != "config/database.php" {
		t.Errorf("expected config/database.php, got %s", got)
	}
	if got := RelativePath("/"); got != "" {
		t.Errorf("expected empty string for root, got %q", got)
	}
}
