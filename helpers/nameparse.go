// Package helpers holds small text utilities shared by the mapping code.
package helpers

import (
	"regexp"
	"strings"
)

// PersonName is a personal name split into the parts a ruleset person needs.
type PersonName struct {
	First  string
	Last   string
	Suffix string
}

var (
	// Suffixes that appear after a name
	suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "PhD", "Ph.D.", "MD", "M.D.", "Esq.", "Esq"}

	// Name prefixes (nobiliary particles) that belong to the last name
	prefixes = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "ter", "ten", "zu"}

	// Pattern for "Last, First Middle" format
	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.+)$`)
	multiSpaceRegex   = regexp.MustCompile(`\s+`)
)

// ParseName splits a name into first and last name.
// Handles both "First Middle Last" and "Last, First Middle" formats.
// A single word becomes the last name. Returns false for blank input.
func ParseName(name string) (PersonName, bool) {
	name = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(name, " "))
	if name == "" {
		return PersonName{}, false
	}

	var result PersonName

	if matches := invertedNameRegex.FindStringSubmatch(name); matches != nil {
		result.Last = strings.TrimSpace(matches[1])
		result.First, result.Suffix = extractSuffix(strings.TrimSpace(matches[2]))
		return result, true
	}

	name, result.Suffix = extractSuffix(name)
	parts := strings.Fields(name)
	if len(parts) == 1 {
		result.Last = parts[0]
		return result, true
	}

	familyStart := len(parts) - 1
	for familyStart > 1 && isPrefix(parts[familyStart-1]) {
		familyStart--
	}

	result.First = strings.Join(parts[:familyStart], " ")
	result.Last = strings.Join(parts[familyStart:], " ")
	return result, true
}

// extractSuffix extracts a trailing suffix from a name string.
func extractSuffix(name string) (string, string) {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, ", "+suffix) {
			return strings.TrimSuffix(name, ", "+suffix), suffix
		}
		if strings.HasSuffix(name, " "+suffix) {
			return strings.TrimSuffix(name, " "+suffix), suffix
		}
	}
	return name, ""
}

func isPrefix(word string) bool {
	lower := strings.ToLower(word)
	for _, prefix := range prefixes {
		if lower == prefix {
			return true
		}
	}
	return false
}
