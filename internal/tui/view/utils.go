package view

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// truncate cuts s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, width, ellipsis)
}

// cell truncates s and pads it to exactly width cells.
func cell(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// columnWidths sizes columns to their content, shrinking the widest ones
// until the row fits total. The last column takes any remaining space.
func columnWidths(header []string, rows [][]string, total int) []int {
	if len(header) == 0 {
		return nil
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				if w := runewidth.StringWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	gaps := len(widths) - 1
	for sum(widths)+gaps > total {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 3 {
			break
		}
		widths[widest]--
	}
	if rest := total - gaps - sum(widths); rest > 0 {
		widths[len(widths)-1] += rest
	}
	return widths
}

func sum(in []int) int {
	n := 0
	for _, v := range in {
		n += v
	}
	return n
}
