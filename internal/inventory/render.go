package inventory

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/starford/trinventory/internal/models"
)

const tableHeader = "|    | TR | Title | Details | Tags | Status |\n" +
	"|:--:|:--:|:------|:--------|:-----|:-------|"

var (
	// reportLinkRe matches links to sibling reports such as ../007/index.ipynb.
	reportLinkRe = regexp.MustCompile(`\[([^\]]+)\]\((\.|\.\./)?(\d\d\d)/index\.ipynb\)`)
	commentRe    = regexp.MustCompile(`<!---* (.*?) -*-->(<br>)?`)
	// hyphenLinkRe matches a markdown link whose text contains a hyphen.
	hyphenLinkRe = regexp.MustCompile(`\[([^\]]+)\-([^\]]+)\]\(([^\)]+)\)`)
)

// Render returns the inventory table for cards in the given order.
func Render(cards []models.Card) string {
	var b strings.Builder
	b.WriteString(tableHeader)
	for _, card := range cards {
		row := ToRow(card)
		fmt.Fprintf(&b, "\n| | **[TR&#8209;%s](%s/index.ipynb)** | %s | %s | %s | %s |",
			row.ID, row.ID, row.Title, row.Details, row.Tags, row.Status)
	}
	return b.String()
}

// ToRow applies the display transformations to one card.
func ToRow(card models.Card) models.Row {
	return models.Row{
		ID:      card.ID,
		Title:   card.Title,
		Details: FormatDetails(card.Details),
		Tags:    FormatTags(card.Tags),
		Status:  FormatStatus(card.Footer),
	}
}

// FormatDetails points report links at NNN/index.ipynb and strips HTML
// comments.
func FormatDetails(details string) string {
	details = reportLinkRe.ReplaceAllString(details, "[${1}](${3}/index.ipynb)")
	return commentRe.ReplaceAllString(details, "")
}

// FormatTags renders tags sorted as badges. Duplicates are kept.
func FormatTags(tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	badges := make([]string, len(sorted))
	for i, tag := range sorted {
		badges[i] = Badge(tag)
	}
	return strings.Join(badges, " ")
}

// Badge wraps tag in a sphinx-design badge role.
func Badge(tag string) string {
	return "{bdg-info-line}`" + tag + "`"
}

// FormatStatus takes the first footer line and makes hyphens in link text
// non-breaking.
func FormatStatus(footer string) string {
	first, _, _ := strings.Cut(footer, "\n")
	first = strings.TrimSuffix(first, "\r")
	return hyphenLinkRe.ReplaceAllString(first, "[${1}&#8209;${2}](${3})")
}
