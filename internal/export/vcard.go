package export

import (
	"io"
	"strings"

	"github.com/joseph-ayodele/card-scanner/internal/contact"
)

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`;`, `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func escapeVCard(s string) string { return vcardEscaper.Replace(s) }

// VCard renders one vCard 3.0 block. FN is always present; other properties
// only when the field is set.
func VCard(r contact.Record) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + escapeVCard(r.Name),
	}
	add := func(prefix, v string) {
		if v != "" {
			lines = append(lines, prefix+escapeVCard(v))
		}
	}
	add("ORG:", r.Company)
	add("TITLE:", r.Title)
	add("TEL;TYPE=CELL:", r.Phone)
	add("EMAIL;TYPE=INTERNET:", r.Email)
	add("URL:", r.Website)
	if r.Address != "" {
		lines = append(lines, "ADR;TYPE=WORK:;;"+escapeVCard(r.Address)+";;;;")
	}
	add("NOTE:", r.Notes)
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n")
}

// WriteVCard writes all records as vCard blocks joined by "\n".
func WriteVCard(w io.Writer, recs []contact.Record) error {
	blocks := make([]string, len(recs))
	for i, r := range recs {
		blocks[i] = VCard(r)
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n"))
	return err
}
