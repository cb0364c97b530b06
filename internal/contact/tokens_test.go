package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindEmails(t *testing.T) {
	assert.Equal(t, []string{"a.b+c@x.co", "Z_Z@Mail.Example.MY"},
		FindEmails("mail a.b+c@x.co or Z_Z@Mail.Example.MY"))
	assert.Empty(t, FindEmails("no at sign here"))
	assert.Empty(t, FindEmails("broken@host"))
}

func TestFindPhones(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"mobile hyphen space", "Tel: 012-345 6789", []string{"012-345 6789"}},
		{"landline", "03-2161 1234", []string{"03-2161 1234"}},
		{"plus sixty", "+6012-345 6789", []string{"+6012-345 6789"}},
		{"parenthesized area", "(03) 2161 1234", []string{"(03) 2161 1234"}},
		{"international", "+65 6123 4567", []string{"+65 6123 4567"}},
		{"duplicates kept", "012-345 6789\n012-345 6789", []string{"012-345 6789", "012-345 6789"}},
		{"never spans lines", "0123\n4567", nil},
		{"postcode alone", "50450 Kuala Lumpur", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindPhones(tt.in))
		})
	}
}

func TestFindURLs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"www", "visit www.acme.com", []string{"www.acme.com"}},
		{"scheme and path", "https://acme.com.my/contact?id=1", []string{"https://acme.com.my/contact?id=1"}},
		{"email domain dropped", "john@acme.com", nil},
		{"email and site", "john@acme.com\nacme.io", []string{"acme.io"}},
		{"dotted local part dropped", "john.tan@acme.com", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindURLs(tt.in))
		})
	}
}

func TestIsMobile(t *testing.T) {
	tests := map[string]bool{
		"012-345 6789":    true,
		"+60 12-345 6789": true,
		"6019 876 5432":   true,
		"03-2161 1234":    false,
		"+65 6123 4567":   false,
		"603-2161 1234":   false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsMobile(in), in)
	}
}

func TestSelectors(t *testing.T) {
	assert.Equal(t, "", SelectPhone(nil))
	assert.Equal(t, "03-2161 1234", SelectPhone([]string{"03-2161 1234", "+65 6123 4567"}))
	assert.Equal(t, "019-222 3333", SelectPhone([]string{"03-2161 1234", "019-222 3333"}))

	assert.Equal(t, "", SelectEmail(nil))
	assert.Equal(t, "a@b.com", SelectEmail([]string{"A@B.COM", "c@d.com"}))

	assert.Equal(t, "", SelectURL(nil))
	assert.Equal(t, "x.io", SelectURL([]string{"x.io", "y.io"}))
}
