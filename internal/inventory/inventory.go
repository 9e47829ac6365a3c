// Package inventory builds the technical-report table from the notebooks of a
// report directory.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/starford/trinventory/internal/checksum"
	"github.com/starford/trinventory/internal/models"
	"github.com/starford/trinventory/internal/notebook"
	"github.com/starford/trinventory/internal/parser"
	"github.com/starford/trinventory/internal/storage"
)

// Options controls a build pass.
type Options struct {
	// Output is the table path relative to the report root.
	Output string
	// RepoRoot is the directory notebook paths in error messages are
	// relative to. Empty means relative to the report root.
	RepoRoot string
	// DryRun renders the table without writing it.
	DryRun bool
}

// Result describes a finished build pass.
type Result struct {
	Cards    []models.Card
	Table    string
	Checksum string
	Written  bool
}

// Collect extracts the card of every notebook in locator order. The first
// failure aborts the pass.
func Collect(store storage.Provider, repoRoot string, logger *slog.Logger) ([]models.Card, error) {
	paths, err := store.Notebooks()
	if err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(paths))
	for _, p := range paths {
		card, err := loadCard(store, p, displayPath(store.Root(), repoRoot, p))
		if err != nil {
			return nil, err
		}
		logger.Debug("inventory: card extracted",
			slog.String("path", p),
			slog.String("id", card.ID))
		cards = append(cards, *card)
	}
	return cards, nil
}

// loadCard opens, decodes and releases one notebook before extracting its card.
func loadCard(store storage.Provider, path, display string) (*models.Card, error) {
	rc, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	nb, err := notebook.Read(rc)
	_ = rc.Close()
	if err != nil {
		return nil, fmt.Errorf("inventory: %s: %w", display, err)
	}

	card, err := parser.ExtractCard(nb, display)
	if err != nil {
		return nil, err
	}
	card.Path = path
	return card, nil
}

// Build collects every card, renders the table and writes it to
// opts.Output. Nothing is written when any notebook fails or when the output
// already holds the same table.
func Build(store storage.Provider, opts Options, logger *slog.Logger) (*Result, error) {
	cards, err := Collect(store, opts.RepoRoot, logger)
	if err != nil {
		return nil, err
	}

	table := Render(cards)
	res := &Result{
		Cards:    cards,
		Table:    table,
		Checksum: checksum.Sum([]byte(table)),
	}
	if opts.DryRun {
		return res, nil
	}

	existing, err := store.Read(opts.Output)
	switch {
	case err == nil && bytes.Equal(existing, []byte(table)):
		logger.Debug("inventory: unchanged", slog.String("output", opts.Output))
		return res, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("inventory: read existing output: %w", err)
	}

	if err := store.Write(opts.Output, []byte(table)); err != nil {
		return nil, err
	}
	res.Written = true
	return res, nil
}

// displayPath returns rel relative to repoRoot, falling back to rel itself.
func displayPath(root, repoRoot, rel string) string {
	if repoRoot == "" {
		return rel
	}
	out, err := filepath.Rel(repoRoot, filepath.Join(root, rel))
	if err != nil {
		return rel
	}
	return out
}
