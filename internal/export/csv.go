package export

import (
	"io"
	"strings"

	"github.com/joseph-ayodele/card-scanner/internal/contact"
)

// WriteCSV writes a header row plus one row per record. Every field is
// double-quoted with embedded quotes doubled; rows are joined by "\n" with no
// trailing newline.
func WriteCSV(w io.Writer, recs []contact.Record) error {
	var b strings.Builder
	b.WriteString(strings.Join(contact.Columns, ","))
	for _, r := range recs {
		b.WriteByte('\n')
		for i, v := range r.Values() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
