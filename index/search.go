package index

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
)

// SearchOptions configures a content search.
type SearchOptions struct {
	// Query is plain words, a "quoted phrase" or a /regular expression/.
	Query string
	// FilePath restricts the search to one file and overrides FileGlob.
	FilePath string
	// FileGlob filters by relative path; a pattern without a slash also
	// matches base names in any folder.
	FileGlob     string
	MaxResults   int
	ContextLines int
}

// SearchResult groups the matching lines of one file.
type SearchResult struct {
	RelativePath string
	Matches      []LineMatch
}

// LineMatch is one matching line with its surrounding context.
type LineMatch struct {
	LineNumber    int
	LineText      string
	ContextBefore []string
	ContextAfter  []string
}

type queryKind int

const (
	queryWords queryKind = iota
	queryPhrase
	queryRegexp
)

type parsedQuery struct {
	kind    queryKind
	text    string
	words   []string
	pattern *regexp.Regexp
}

func parseQuery(raw string) (parsedQuery, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return parsedQuery{}, errors.New("query is required")
	}

	if len(raw) > 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") {
		text := raw[1 : len(raw)-1]
		re, err := regexp.Compile("(?i)" + text)
		if err != nil {
			return parsedQuery{}, fmt.Errorf("invalid regular expression: %w", err)
		}
		return parsedQuery{kind: queryRegexp, text: text, pattern: re}, nil
	}
	if len(raw) > 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		text := raw[1 : len(raw)-1]
		return parsedQuery{kind: queryPhrase, text: text, words: []string{strings.ToLower(text)}}, nil
	}
	return parsedQuery{kind: queryWords, text: raw, words: strings.Fields(strings.ToLower(raw))}, nil
}

func (q parsedQuery) bleveQuery() query.Query {
	switch q.kind {
	case queryRegexp:
		return bleve.NewRegexpQuery(q.text)
	case queryPhrase:
		return bleve.NewMatchPhraseQuery(q.text)
	}
	return bleve.NewMatchQuery(q.text)
}

func (q parsedQuery) matchesLine(line string) bool {
	if q.kind == queryRegexp {
		return q.pattern.MatchString(line)
	}
	lower := strings.ToLower(line)
	for _, w := range q.words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Search runs a full-text query and reports matching lines per file. It
// returns the results and the total number of matching lines.
func (ci *ContentIndex) Search(options SearchOptions) ([]SearchResult, int, error) {
	q, err := parseQuery(options.Query)
	if err != nil {
		return nil, 0, err
	}
	if options.MaxResults <= 0 {
		options.MaxResults = 50
	}
	if options.ContextLines < 0 {
		options.ContextLines = 0
	}
	filePath := strings.TrimPrefix(strings.ReplaceAll(options.FilePath, "\\", "/"), "/")
	fileGlob := strings.TrimPrefix(strings.ReplaceAll(options.FileGlob, "\\", "/"), "/")
	if fileGlob != "" && !doublestar.ValidatePattern(fileGlob) {
		return nil, 0, fmt.Errorf("invalid glob pattern: %s", fileGlob)
	}

	ci.mu.RLock()
	defer ci.mu.RUnlock()

	request := bleve.NewSearchRequest(q.bleveQuery())
	// Hits are filtered afterwards, so ask for more than needed.
	request.Size = options.MaxResults * 5
	hits, err := ci.index.Search(request)
	if err != nil {
		return nil, 0, fmt.Errorf("searching index: %w", err)
	}

	var results []SearchResult
	total := 0
	for _, hit := range hits.Hits {
		relativePath := hit.ID
		content, ok := ci.contents[relativePath]
		if !ok {
			continue
		}
		if filePath != "" {
			if relativePath != filePath {
				continue
			}
		} else if fileGlob != "" && !matchGlob(fileGlob, relativePath) {
			continue
		}

		matches := findMatchingLines(content, q, options.ContextLines)
		if len(matches) == 0 {
			continue
		}
		total += len(matches)
		results = append(results, SearchResult{RelativePath: relativePath, Matches: matches})
		if len(results) >= options.MaxResults {
			break
		}
	}
	return results, total, nil
}

func matchGlob(pattern, relativePath string) bool {
	if ok, _ := doublestar.Match(pattern, relativePath); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, path.Base(relativePath))
		return ok
	}
	return false
}

func findMatchingLines(content string, q parsedQuery, contextLines int) []LineMatch {
	lines := strings.Split(content, "\n")

	var matches []LineMatch
	for i, line := range lines {
		if !q.matchesLine(line) {
			continue
		}
		match := LineMatch{LineNumber: i + 1, LineText: line}
		if contextLines > 0 {
			from := max(i-contextLines, 0)
			to := min(i+contextLines+1, len(lines))
			match.ContextBefore = append([]string(nil), lines[from:i]...)
			match.ContextAfter = append([]string(nil), lines[i+1:to]...)
		}
		matches = append(matches, match)
	}
	return matches
}
