// Package models defines the domain types for the technical-report inventory.
package models

// Cell types recognised in a notebook.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
)

// Notebook is the subset of an nbformat v4 document the inventory needs.
type Notebook struct {
	Cells         []Cell
	NBFormat      int
	NBFormatMinor int
}

// Cell is one notebook cell.
type Cell struct {
	CellType string
	Source   string
	Metadata CellMetadata
}

// CellMetadata holds the cell metadata keys the inventory reads. It is decoded
// straight from the notebook JSON.
type CellMetadata struct {
	Tags []string `json:"tags,omitempty"`
}

// Card is the info card of one technical report.
type Card struct {
	Path    string // notebook path relative to the report root
	ID      string
	Title   string
	Tags    []string
	Details string // newlines already replaced by <br>
	Footer  string // only kept when it links to GitHub
}

// Row is a Card transformed for display in the inventory table.
type Row struct {
	ID      string
	Title   string
	Details string
	Tags    string
	Status  string
}
