// Package testutil provides shared test helpers for setting up report
// directories and notebooks.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/trinventory/internal/models"
	"github.com/starford/trinventory/internal/storage"
)

// TestReports creates a temporary report directory with a storage.Provider.
func TestReports(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// Markdown returns a markdown cell with the given source and tags.
func Markdown(src string, tags ...string) models.Cell {
	return models.Cell{
		CellType: models.CellMarkdown,
		Source:   src,
		Metadata: models.CellMetadata{Tags: tags},
	}
}

// Code returns a code cell.
func Code(src string) models.Cell {
	return models.Cell{CellType: models.CellCode, Source: src}
}

// CardSource returns a conforming card cell source.
func CardSource(id, title, details, footer string) string {
	src := fmt.Sprintf("::::{margin}\n:::{card} %s\nTR-%s\n^^^\n%s\n", title, id, details)
	if footer != "" {
		src += "+++\n" + footer + "\n"
	}
	return src + ":::\n::::"
}

// WriteNotebook writes dir/index.ipynb below root in nbformat v4 JSON.
func WriteNotebook(t *testing.T, root, dir string, cells ...models.Cell) string {
	t.Helper()
	raw := make([]map[string]any, 0, len(cells))
	for _, c := range cells {
		meta := map[string]any{}
		if c.Metadata.Tags != nil {
			meta["tags"] = c.Metadata.Tags
		}
		cell := map[string]any{
			"cell_type": c.CellType,
			"metadata":  meta,
			"source":    c.Source,
		}
		if c.CellType == models.CellCode {
			cell["outputs"] = []any{}
			cell["execution_count"] = nil
		}
		raw = append(raw, cell)
	}
	data, err := json.MarshalIndent(map[string]any{
		"cells":          raw,
		"metadata":       map[string]any{},
		"nbformat":       4,
		"nbformat_minor": 5,
	}, "", " ")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, dir, storage.NotebookName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
