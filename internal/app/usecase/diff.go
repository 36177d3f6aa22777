package usecase

import "github.com/pmezard/go-difflib/difflib"

// renderDiff returns a unified diff from old to new, or the empty string
// when the contents are identical.
func renderDiff(oldLabel, oldContent, newLabel, newContent string) (string, error) {
	if oldContent == newContent {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: oldLabel,
		ToFile:   newLabel,
		Context:  3,
	})
}
