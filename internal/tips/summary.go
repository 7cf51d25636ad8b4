package tips

import (
	"fmt"
	"strconv"
	"strings"

	"greensteps/internal/waste"
)

// Summarize renders up to summaryCap records, one per line, for the advisor
// prompt.
func Summarize(records []waste.Record) string {
	var b strings.Builder
	for i, r := range records {
		if i == summaryCap {
			break
		}
		fmt.Fprintf(&b, "%s, %s, %s %s",
			r.EntryDate.Format(waste.DateLayout),
			r.CategoryName,
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
			r.Unit,
		)
		if notes := strings.TrimSpace(r.Notes); notes != "" {
			fmt.Fprintf(&b, ", notes: %s", notes)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
