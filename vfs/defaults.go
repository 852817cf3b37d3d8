package vfs

import (
	_ "embed"
	"time"
)

var (
	//go:embed defaults/index.php
	defaultIndexPHP string
	//go:embed defaults/styles.css
	defaultStylesCSS string
	//go:embed defaults/config/database.php
	defaultDatabasePHP string
)

// DefaultEntryPath is the file the default project is run from.
const DefaultEntryPath = "/index.php"

// DefaultProject builds the starter project: two files at the root and a
// config folder holding one more.
func DefaultProject(now time.Time, newID func() string) *Node {
	file := func(path, content string) *Node {
		return &Node{ID: newID(), Name: BaseName(path), Path: path, Kind: KindFile, Content: content, CreatedAt: now, UpdatedAt: now}
	}
	return &Node{
		ID:        newID(),
		Name:      "project",
		Path:      RootPath,
		Kind:      KindFolder,
		CreatedAt: now,
		UpdatedAt: now,
		Children: []*Node{
			file("/index.php", defaultIndexPHP),
			file("/styles.css", defaultStylesCSS),
			{
				ID:        newID(),
				Name:      "config",
				Path:      "/config",
				Kind:      KindFolder,
				CreatedAt: now,
				UpdatedAt: now,
				Children: []*Node{
					file("/config/database.php", defaultDatabasePHP),
				},
			},
		},
	}
}
