package index

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// ContentIndex is an in-memory bleve index over file contents. The raw
// contents are kept alongside so matches can be reported per line.
type ContentIndex struct {
	mu       sync.RWMutex
	index    bleve.Index
	contents map[string]string // key: relative path
}

// NewContentIndex creates an empty in-memory index.
func NewContentIndex() (*ContentIndex, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return &ContentIndex{index: idx, contents: make(map[string]string)}, nil
}

type document struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Language string `json:"language"`
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	content := bleve.NewTextFieldMapping()
	content.Store = false
	content.IncludeInAll = true
	docMapping.AddFieldMappingsAt("content", content)

	path := bleve.NewTextFieldMapping()
	path.Store = true
	path.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", path)

	lang := bleve.NewKeywordFieldMapping()
	lang.Store = true
	lang.IncludeInAll = false
	docMapping.AddFieldMappingsAt("language", lang)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexFile adds or replaces the content of relativePath.
func (ci *ContentIndex) IndexFile(relativePath, content, language string) error {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.contents[relativePath] = content
	doc := document{Content: content, Path: relativePath, Language: language}
	if err := ci.index.Index(relativePath, doc); err != nil {
		return fmt.Errorf("indexing file %s: %w", relativePath, err)
	}
	return nil
}

// RemoveFile drops relativePath from the index.
func (ci *ContentIndex) RemoveFile(relativePath string) error {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	delete(ci.contents, relativePath)
	if err := ci.index.Delete(relativePath); err != nil {
		return fmt.Errorf("removing file %s from index: %w", relativePath, err)
	}
	return nil
}

// Content returns the indexed content of relativePath.
func (ci *ContentIndex) Content(relativePath string) (string, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	content, ok := ci.contents[strings.TrimPrefix(relativePath, "/")]
	return content, ok
}

// DocumentCount returns the number of indexed documents.
func (ci *ContentIndex) DocumentCount() uint64 {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	count, _ := ci.index.DocCount()
	return count
}

// Clear drops every document by replacing the underlying index.
func (ci *ContentIndex) Clear() error {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	if err := ci.index.Close(); err != nil {
		return fmt.Errorf("closing old index: %w", err)
	}
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating new index: %w", err)
	}
	ci.index = idx
	ci.contents = make(map[string]string)
	return nil
}

// Close releases the index.
func (ci *ContentIndex) Close() error {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	return ci.index.Close()
}
