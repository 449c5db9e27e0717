package exercise

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/sensetype/internal/engine/unit"
)

// Tokenize splits text into unit contents for modality m.
func Tokenize(text string, m unit.Modality) []string {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	if m == unit.Diagram {
		return lines(text)
	}
	return graphemes(text)
}

func graphemes(text string) []string {
	out := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

func lines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
