// Package parser extracts the info card from the markdown cells of a technical
// report notebook.
//
// A card is a MyST margin block at the top of a markdown cell:
//
//	::::{margin}
//	:::{card} Title of the report
//	TR-007
//	^^^
//	Free text details.
//	+++
//	✅&nbsp;[compwa.github.io#123](https://github.com/ComPWA/compwa.github.io/pull/123)
//	:::
//	::::
package parser

import (
	"fmt"
	"strings"

	"github.com/starford/trinventory/internal/apperr"
	"github.com/starford/trinventory/internal/models"
)

const (
	marginOpen   = "::::{margin}"
	cardOpen     = ":::{card} "
	idPrefix     = "TR-"
	cardClose    = ":::"
	footerBreak  = "+++"
	headerBreak  = "^^^"
	commentOpen  = "<!--"
	lineBreak    = "<br>"
	statusSignal = "https://github.com"

	// minCardLines is the number of non-blank, non-comment lines a cell
	// needs before it is considered a card candidate.
	minCardLines = 5
)

type headerState int

const (
	seekingMarginOpen headerState = iota
	seekingCardOpen
	seekingID
	headerDone
)

// header is the result of a successful header scan.
type header struct {
	title string
	id    string
	end   int // index of the first source line after the identifier line
}

// ExtractCard returns the info card of nb. path is used in error messages and
// should be relative to the repository root.
func ExtractCard(nb *models.Notebook, path string) (*models.Card, error) {
	for _, cell := range nb.Cells {
		if cell.CellType != models.CellMarkdown {
			continue
		}
		lines := splitLines(cell.Source)
		h, ok := parseHeader(lines)
		if !ok {
			continue
		}
		return buildCard(cell, lines, h, path)
	}
	return nil, &apperr.MissingCardError{Path: path, Hint: apperr.DefaultHint}
}

// parseHeader runs the margin/card/identifier state machine over the
// non-blank, non-comment lines of a cell.
func parseHeader(lines []string) (header, bool) {
	var h header
	state := seekingMarginOpen
	kept := 0
	for i, line := range lines {
		if ignorable(line) {
			continue
		}
		kept++
		switch state {
		case seekingMarginOpen:
			if line != marginOpen {
				return h, false
			}
			state = seekingCardOpen
		case seekingCardOpen:
			if !strings.HasPrefix(line, cardOpen) {
				return h, false
			}
			h.title = field(line, cardOpen)
			state = seekingID
		case seekingID:
			if !strings.HasPrefix(line, idPrefix) {
				return h, false
			}
			h.id = field(line, idPrefix)
			h.end = i + 1
			state = headerDone
		}
	}
	if state != headerDone || kept < minCardLines {
		return h, false
	}
	return h, true
}

func buildCard(cell models.Cell, lines []string, h header, path string) (*models.Card, error) {
	if h.title == "" {
		return nil, fmt.Errorf("%w: %s: card has no title", apperr.ErrMalformedCard, path)
	}
	if h.id == "" {
		return nil, fmt.Errorf("%w: %s: card has no %s identifier", apperr.ErrMalformedCard, path, idPrefix)
	}

	card := &models.Card{
		ID:      h.id,
		Title:   h.title,
		Tags:    append([]string(nil), cell.Metadata.Tags...),
		Details: ExtractBody(strings.Join(lines[h.end:], "\n")),
	}
	if footer, ok := ExtractFooter(cell.Source); ok && strings.Contains(footer, statusSignal) {
		card.Footer = footer
	}
	return card, nil
}

// ExtractBody returns the free text between the card header and the first
// footer or closing marker. When the text contains a ^^^ separator only the
// part after it is kept. Newlines become <br>.
func ExtractBody(rest string) string {
	body, _, _ := strings.Cut(rest, cardClose)
	body, _, _ = strings.Cut(body, footerBreak)
	body = strings.TrimSpace(body)
	if strings.Contains(body, headerBreak) {
		body = strings.TrimSpace(strings.Split(body, headerBreak)[1])
	}
	return strings.ReplaceAll(body, "\n", lineBreak)
}

// ExtractFooter returns the text between the first +++ divider and the next
// +++ or closing marker. ok is false when src has no divider.
func ExtractFooter(src string) (string, bool) {
	if !strings.Contains(src, footerBreak) {
		return "", false
	}
	footer := strings.Split(src, footerBreak)[1]
	footer, _, _ = strings.Cut(footer, cardClose)
	return strings.TrimSpace(footer), true
}

// field returns the text following marker up to its next occurrence.
func field(line, marker string) string {
	v, _, _ := strings.Cut(line[len(marker):], marker)
	return v
}

func ignorable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, commentOpen)
}

// splitLines splits on \n, \r\n and \r without producing a trailing empty line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
