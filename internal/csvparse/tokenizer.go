package csvparse

import "strings"

// SplitLine splits one CSV line into trimmed fields.
//
// A double quote toggles quoting; inside quotes, "" yields a literal quote.
// Commas only separate fields outside quotes. An unbalanced quote is not an
// error: the rest of the line is read as quoted text.
func SplitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}
