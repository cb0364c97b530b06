package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreName(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		line string
		want int
	}{
		{"12345", Disqualified},
		{"--- ---", Disqualified},
		{"John Tan", 7},
		{"JOHN TAN", 7},
		{"john tan", 5},
		{"Madonna", 2},
		{"Sales Manager", 5},
		{"Unit 3 Block B", 2},
		{"ACME GLOBAL NETWORK SOLUTIONS GROUP", 0},
		{"Acme Trading Sdn Bhd", 5},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ScoreName(tt.line))
		})
	}
}

func TestPickName(t *testing.T) {
	e := newTestExtractor(t)

	lines := []string{"Madonna", "John Tan", "Mary Lee", "123"}
	assert.Equal(t, "John Tan", e.pickName(lines, make([]bool, len(lines))))
	assert.Equal(t, "Mary Lee", e.pickName(lines, []bool{false, true, false, false}))
	assert.Equal(t, "", e.pickName(lines, []bool{true, true, true, false}))
	assert.Equal(t, "", e.pickName(nil, nil))
}

func TestNameFromEmail(t *testing.T) {
	tests := map[string]string{
		"jane.doe@example.com":       "Jane Doe",
		"JOHN_TAN88@acme.com":        "John Tan",
		"mary--ann..lee@x.my":        "Mary Ann Lee",
		"12345@numbers.com":          "",
		"._-@x.com":                  "",
		"info@acme.com":              "Info",
		"ahmad.bin.ali2@corp.com.my": "Ahmad Bin Ali",
	}
	for in, want := range tests {
		assert.Equal(t, want, NameFromEmail(in), in)
	}
}
