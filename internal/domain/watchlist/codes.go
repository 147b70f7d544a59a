package watchlist

import "strings"

// Clean trims raw cell values and keeps those starting with prefix.
// Input order is kept and duplicates survive.
func Clean(raw []string, prefix string) []string {
	codes := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" || !strings.HasPrefix(v, prefix) {
			continue
		}
		codes = append(codes, v)
	}
	return codes
}

// CodeSet is a case-sensitive set of EDINET issuer codes.
type CodeSet map[string]struct{}

func NewCodeSet(codes []string) CodeSet {
	set := make(CodeSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func (s CodeSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}
