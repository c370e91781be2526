// Package semantic holds the small text/geometry primitives the compliance
// rule packs are built from: numeric proximity search, keyword-cluster
// matching, snippet extraction, a business-day calendar, DOM↔PDF coordinate
// transforms, and a page-range parser.
package semantic

import (
	"strconv"
	"strings"
)

// proximityWindow is the number of tokens on either side of an anchor
// phrase searched for a number, per §4.6.
const proximityWindow = 20

// ExtractDaysNear returns the first unsigned integer occurring within a
// 20-token window of any of the anchor phrases (case-insensitive), or false
// if none is found. Dollar amounts (tokens starting with '$') are not counted.
func ExtractDaysNear(text string, anchors []string) (int, bool) {
	lower := strings.ToLower(text)
	tokens := strings.Fields(lower)

	for _, anchor := range anchors {
		anchorLower := strings.ToLower(anchor)
		anchorTokens := strings.Fields(anchorLower)
		if len(anchorTokens) == 0 {
			continue
		}

		for i := 0; i+len(anchorTokens) <= len(tokens); i++ {
			if !matchesAt(tokens, i, anchorTokens) {
				continue
			}

			lo := i - proximityWindow
			if lo < 0 {
				lo = 0
			}
			hi := i + len(anchorTokens) + proximityWindow
			if hi > len(tokens) {
				hi = len(tokens)
			}

			if n, ok := firstUnsignedInt(tokens[lo:hi]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func matchesAt(tokens []string, start int, needle []string) bool {
	for j, nt := range needle {
		if !strings.Contains(tokens[start+j], nt) && tokens[start+j] != nt {
			return false
		}
	}
	return true
}

func firstUnsignedInt(tokens []string) (int, bool) {
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "$") {
			continue
		}
		trimmed :=strings.TrimFunc(tok, func(r rune) bool {
			return !(r >= '0' && r <= '9')
		})
		if trimmed == "" {
			continue
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 0 {
			continue
		}
		return n, true
	}
	return 0, false
}

// HasClaimContext reports whether the text suggests a landlord-claim
// qualifier near a deposit clause (used to disambiguate the 83.49(3)(a)
// vs 83.49(3)(b) windows).
func HasClaimContext(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range []string{"claim on the deposit", "intends to impose a claim", "written notice of intention to impose a claim", "claim against the deposit"} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// HasBankLocation reports whether the text names a Florida banking
// institution location for a held security deposit.
func HasBankLocation(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range []string{"bank", "banking institution", "financial institution", "surety bond"} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
