package describe

import (
	"regexp"
	"strings"
)

const (
	documentsMarker = "<documents>"
	plainDelimiter  = "\n---\n"
)

// documentTag matches a per-file opening tag, with or without attributes.
var documentTag = regexp.MustCompile(`<document[\s>]`)

// CountFiles reports how many files a flattened prompt contains.
//
// Tagged output counts one file per <document> element. Plain output
// alternates path and content segments around standalone "---" lines, so
// n segments hold ceil(n/2) files. A content line that is exactly "---" is
// indistinguishable from a delimiter and is counted as one.
func CountFiles(raw string) int {
	if raw == "" {
		return 0
	}

	if strings.Contains(raw, documentsMarker) {
		return len(documentTag.FindAllStringIndex(raw, -1))
	}

	segments := len(strings.Split(raw, plainDelimiter))
	return (segments + 1) / 2
}
