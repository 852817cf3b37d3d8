package index

import (
	"testing"
)

func newTestContentIndex(t *testing.T) *ContentIndex {
	t.Helper()
	ci, err := NewContentIndex()
	if err != nil {
		t.Fatalf("failed to create content index: %v", err)
	}
	t.Cleanup(func() { ci.Close() })
	return ci
}

const testPage = `<?php
$name = "World";
$greeting = "Hello";
echo "<p>$greeting, $name!</p>";
?>`

func Test_ContentIndex_IndexAndSearch(t *testing.T) {
	ci := newTestContentIndex(t)

	if err := ci.IndexFile("index.php", testPage, "PHP"); err != nil {
		t.Fatalf("failed to index file: %v", err)
	}

	results, totalMatches, err := ci.Search(SearchOptions{Query: "greeting", MaxResults: 10})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RelativePath != "index.php" {
		t.Errorf("expected index.php, got %s", results[0].RelativePath)
	}
	if totalMatches != 2 {
		t.Errorf("expected 2 matching lines, got %d", totalMatches)
	}
	if results[0].Matches[0].LineNumber != 3 {
		t.Errorf("expected first match on line 3, got %d", results[0].Matches[0].LineNumber)
	}
}

func Test_ContentIndex_SearchPhrase(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("a.php", "<?php echo \"hello world\"; ?>", "PHP")
	ci.IndexFile("b.php", "<?php echo \"world hello\"; ?>", "PHP")

	results, _, err := ci.Search(SearchOptions{Query: `"hello world"`})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RelativePath != "a.php" {
		t.Errorf("expected a.php, got %s", results[0].RelativePath)
	}
}

func Test_ContentIndex_SearchRegexp(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("index.php", testPage, "PHP")

	results, totalMatches, err := ci.Search(SearchOptions{Query: "/greet.*/"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if totalMatches != 2 {
		t.Errorf("expected 2 matching lines, got %d", totalMatches)
	}
}

func Test_ContentIndex_SearchInvalidRegexp(t *testing.T) {
	ci := newTestContentIndex(t)

	if _, _, err := ci.Search(SearchOptions{Query: "/([a-/"}); err == nil {
		t.Error("expected error for invalid regular expression")
	}
}

func Test_ContentIndex_SearchEmptyQuery(t *testing.T) {
	ci := newTestContentIndex(t)

	if _, _, err := ci.Search(SearchOptions{Query: "   "}); err == nil {
		t.Error("expected error for empty query")
	}
}

func Test_ContentIndex_SearchWithContext(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("index.php", testPage, "PHP")

	results, _, err := ci.Search(SearchOptions{Query: "echo", ContextLines: 1})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 || len(results[0].Matches) != 1 {
		t.Fatalf("expected a single match, got %+v", results)
	}
	match := results[0].Matches[0]
	if len(match.ContextBefore) != 1 || match.ContextBefore[0] != `$greeting = "Hello";` {
		t.Errorf("unexpected context before: %q", match.ContextBefore)
	}
	if len(match.ContextAfter) != 1 || match.ContextAfter[0] != "?>" {
		t.Errorf("unexpected context after: %q", match.ContextAfter)
	}
}

func Test_ContentIndex_SearchWithFileGlob(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("index.php", "hello from php", "PHP")
	ci.IndexFile("pages/about.php", "hello from about", "PHP")
	ci.IndexFile("assets/app.js", "hello from js", "JavaScript")

	results, _, err := ci.Search(SearchOptions{Query: "hello", FileGlob: "*.php"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 PHP results, got %d", len(results))
	}
	for _, r := range results {
		if r.RelativePath == "assets/app.js" {
			t.Error("glob filter let a JavaScript file through")
		}
	}
}

func Test_ContentIndex_SearchWithFilePath(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("index.php", "hello from index", "PHP")
	ci.IndexFile("app.js", "hello from app", "JavaScript")

	// FilePath wins over FileGlob and accepts a project path.
	results, _, err := ci.Search(SearchOptions{
		Query:    "hello",
		FilePath: "/app.js",
		FileGlob: "*.php",
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RelativePath != "app.js" {
		t.Errorf("expected app.js, got %s", results[0].RelativePath)
	}
}

func Test_ContentIndex_SearchWithFilePath_NotFound(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("index.php", "hello from index", "PHP")

	results, totalMatches, err := ci.Search(SearchOptions{Query: "hello", FilePath: "missing.php"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 0 || totalMatches != 0 {
		t.Errorf("expected no results, got %d results and %d matches", len(results), totalMatches)
	}
}

func Test_ContentIndex_RemoveFile(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("temp.php", "temporary content", "PHP")
	ci.RemoveFile("temp.php")

	if ci.DocumentCount() != 0 {
		t.Errorf("expected 0 docs after removal, got %d", ci.DocumentCount())
	}
	if _, ok := ci.Content("temp.php"); ok {
		t.Error("expected content to be dropped")
	}
}

func Test_ContentIndex_Clear(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("a.php", "content a", "PHP")
	ci.IndexFile("b.php", "content b", "PHP")

	if err := ci.Clear(); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if ci.DocumentCount() != 0 {
		t.Errorf("expected 0 docs after clear, got %d", ci.DocumentCount())
	}
}

func Test_ContentIndex_Content(t *testing.T) {
	ci := newTestContentIndex(t)
	ci.IndexFile("index.php", testPage, "PHP")

	content, ok := ci.Content("/index.php")
	if !ok {
		t.Fatal("expected content to be found")
	}
	if content != testPage {
		t.Errorf("content mismatch:\ngot:  %q\nwant: %q", content, testPage)
	}
	if _, ok := ci.Content("missing.php"); ok {
		t.Error("expected missing file not to be found")
	}
}
