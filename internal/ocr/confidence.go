package ocr

import (
	"strings"

	"github.com/joseph-ayodele/card-scanner/internal/contact"
)

// HeuristicConfidence scores recognized text by how card-like it is: each
// contact token class found adds to a small base.
func HeuristicConfidence(txt string) float32 {
	score := float32(0.2)
	if len(contact.FindEmails(txt)) > 0 {
		score += 0.25
	}
	if len(contact.FindPhones(txt)) > 0 {
		score += 0.25
	}
	if len(contact.FindURLs(txt)) > 0 {
		score += 0.1
	}
	if len(contact.NormalizeLines(txt)) >= 3 {
		score += 0.1
	}
	if len(strings.TrimSpace(txt)) > 60 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// BlendConfidence weights engine confidence over the heuristic when present.
func BlendConfidence(ocrConf, heurConf float32) float32 {
	conf := heurConf
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
