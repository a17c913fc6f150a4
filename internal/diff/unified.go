package diff

import (
	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/nftjson/internal/schema"
)

// Unified renders a unified diff of the indented JSON forms of a and b.
// Identical documents produce an empty string.
func Unified(a, b schema.Document, fromName, toName string) (string, error) {
	left, err := schema.EncodeIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	right, err := schema.EncodeIndent(b, "", "  ")
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(left)),
		B:        difflib.SplitLines(string(right)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}
