// Package notebook decodes Jupyter notebooks (nbformat v4) into models.Notebook.
package notebook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/starford/trinventory/internal/models"
)

// rawCell mirrors a cell on disk. nbformat stores source either as a single
// string or as a list of lines that must be concatenated.
type rawCell struct {
	CellType string              `json:"cell_type"`
	Source   json.RawMessage     `json:"source"`
	Metadata models.CellMetadata `json:"metadata"`
}

type rawNotebook struct {
	Cells         []rawCell `json:"cells"`
	NBFormat      int       `json:"nbformat"`
	NBFormatMinor int       `json:"nbformat_minor"`
}

// Decode parses notebook JSON without converting between nbformat versions.
func Decode(data []byte) (*models.Notebook, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("notebook: decode: %w", err)
	}

	nb := &models.Notebook{
		NBFormat:      raw.NBFormat,
		NBFormatMinor: raw.NBFormatMinor,
		Cells:         make([]models.Cell, 0, len(raw.Cells)),
	}
	for i, rc := range raw.Cells {
		src, err := joinSource(rc.Source)
		if err != nil {
			return nil, fmt.Errorf("notebook: cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, models.Cell{
			CellType: rc.CellType,
			Source:   src,
			Metadata: rc.Metadata,
		})
	}
	return nb, nil
}

// Read decodes a notebook from r.
func Read(r io.Reader) (*models.Notebook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("notebook: read: %w", err)
	}
	return Decode(data)
}

func joinSource(msg json.RawMessage) (string, error) {
	if len(msg) == 0 || string(msg) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(msg, &lines); err != nil {
		return "", fmt.Errorf("source must be a string or a list of strings: %w", err)
	}
	return strings.Join(lines, ""), nil
}
