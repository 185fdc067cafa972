// Package policy provides SymbolPolicy implementations stricter than
// domain.AnySymbol.
package policy

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	phon "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// Policy names accepted by FromConfig.
const (
	NameAny        = "any"
	NameNormalized = "normalized"
	NameIPA        = "ipa"
)

// Names returns the policy names accepted by FromConfig.
func Names() []string {
	return []string{NameAny, NameNormalized, NameIPA}
}

// Normalized canonicalises symbols to Unicode NFC so that precomposed and
// decomposed spellings of the same sound collapse to one phoneme.
type Normalized struct {
	// MaxGraphemes limits the symbol length in user-perceived characters.
	// Zero means no limit.
	MaxGraphemes int
}

// Canonical implements domain.SymbolPolicy.
func (n Normalized) Canonical(symbol string) (string, error) {
	s := norm.NFC.String(symbol)
	if s == "" {
		return "", &phon.InvalidSymbolError{Symbol: symbol, Reason: "symbol is empty"}
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return "", &phon.InvalidSymbolError{Symbol: symbol, Reason: "symbol contains whitespace"}
		}
		if unicode.IsControl(r) {
			return "", &phon.InvalidSymbolError{Symbol: symbol, Reason: "symbol contains a control character"}
		}
	}
	if n.MaxGraphemes > 0 {
		if count := uniseg.GraphemeClusterCount(s); count > n.MaxGraphemes {
			return "", &phon.InvalidSymbolError{
				Symbol: symbol,
				Reason: fmt.Sprintf("symbol has %d characters, limit is %d", count, n.MaxGraphemes),
			}
		}
	}
	return s, nil
}

// IPA accepts symbols written with Latin letters, IPA extensions, spacing
// modifier letters (length marks, aspiration) and combining diacritics
// including tie bars.
type IPA struct {
	Normalized
}

// Canonical implements domain.SymbolPolicy.
func (p IPA) Canonical(symbol string) (string, error) {
	s, err := p.Normalized.Canonical(symbol)
	if err != nil {
		return "", err
	}
	for _, r := range s {
		if !isIPARune(r) {
			return "", &phon.InvalidSymbolError{
				Symbol: symbol,
				Reason: fmt.Sprintf("%q (%U) is not an IPA character", r, r),
			}
		}
	}
	return s, nil
}

func isIPARune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 0x00C0 && r <= 0x024F: // Latin-1 supplement letters, Latin Extended-A/B
		return unicode.IsLetter(r)
	case r >= 0x0250 && r <= 0x02AF: // IPA Extensions
		return true
	case r >= 0x02B0 && r <= 0x02FF: // Spacing Modifier Letters
		return true
	case r >= 0x0300 && r <= 0x036F: // Combining Diacritical Marks
		return true
	case r == 0x03B2 || r == 0x03B8 || r == 0x03C7: // β θ χ
		return true
	case r >= 0x1D00 && r <= 0x1DBF: // Phonetic Extensions
		return true
	case r == 0x2191 || r == 0x2193: // ↑ ↓ upstep/downstep
		return true
	}
	return false
}

// FromConfig returns the policy registered under name.
func FromConfig(name string, maxGraphemes int) (phon.SymbolPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameAny:
		return phon.AnySymbol, nil
	case NameNormalized:
		return Normalized{MaxGraphemes: maxGraphemes}, nil
	case NameIPA:
		return IPA{Normalized{MaxGraphemes: maxGraphemes}}, nil
	default:
		return nil, fmt.Errorf("unknown symbol policy %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
}
