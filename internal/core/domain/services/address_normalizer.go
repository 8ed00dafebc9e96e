package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// postalCodePattern finds a four digit postal code followed by a capitalized
// place name, e.g. "1051Budapest" or "1051   Budapest".
var postalCodePattern = regexp.MustCompile(`(\d{4})\s*([A-ZÁÉÍÓÖŐÚÜŰ][a-záéíóöőúüű\s]+)`)

// abbreviation is a case-insensitive, whole-word expansion rule.
type abbreviation struct {
	pattern     *regexp.Regexp
	replacement string
}

func newAbbreviation(pattern, replacement string) abbreviation {
	return abbreviation{
		pattern:     regexp.MustCompile(`(?i)` + pattern),
		replacement: replacement,
	}
}

// abbreviations are applied top to bottom. The order is part of the output
// contract: "ker" runs before the district rules, so those only match text the
// earlier rules left alone.
var abbreviations = []abbreviation{
	newAbbreviation(`sgt`, "sugárút"),
	newAbbreviation(`krt`, "körút"),
	newAbbreviation(`ut`, "utca"),
	newAbbreviation(`út`, "utca"),
	newAbbreviation(`tér`, "tér"),
	newAbbreviation(`pl`, "pályaudvar"),
	newAbbreviation(`áll`, "állomás"),
	newAbbreviation(`ker`, "kerület"),
	newAbbreviation(`ker\.`, "kerület"),
	newAbbreviation(`V\.\s*ker`, "V. kerület"),
	newAbbreviation(`I\.\s*ker`, "I. kerület"),
	newAbbreviation(`II\.\s*ker`, "II. kerület"),
	newAbbreviation(`III\.\s*ker`, "III. kerület"),
	newAbbreviation(`IV\.\s*ker`, "IV. kerület"),
	newAbbreviation(`VI\.\s*ker`, "VI. kerület"),
	newAbbreviation(`VII\.\s*ker`, "VII. kerület"),
	newAbbreviation(`VIII\.\s*ker`, "VIII. kerület"),
	newAbbreviation(`IX\.\s*ker`, "IX. kerület"),
	newAbbreviation(`X\.\s*ker`, "X. kerület"),
	newAbbreviation(`XI\.\s*ker`, "XI. kerület"),
	newAbbreviation(`XII\.\s*ker`, "XII. kerület"),
	newAbbreviation(`XIII\.\s*ker`, "XIII. kerület"),
	newAbbreviation(`XIV\.\s*ker`, "XIV. kerület"),
	newAbbreviation(`XV\.\s*ker`, "XV. kerület"),
	newAbbreviation(`XVI\.\s*ker`, "XVI. kerület"),
	newAbbreviation(`XVII\.\s*ker`, "XVII. kerület"),
	newAbbreviation(`XVIII\.\s*ker`, "XVIII. kerület"),
	newAbbreviation(`XIX\.\s*ker`, "XIX. kerület"),
	newAbbreviation(`XX\.\s*ker`, "XX. kerület"),
	newAbbreviation(`XXI\.\s*ker`, "XXI. kerület"),
	newAbbreviation(`XXII\.\s*ker`, "XXII. kerület"),
	newAbbreviation(`XXIII\.\s*ker`, "XXIII. kerület"),
}

// NormalizeAddress canonicalizes a Hungarian address for geocoding.
//
// Steps, in order:
//  1. every Unicode space becomes an ASCII space, then trim; blank input
//     yields ""
//  2. the first "<postal code><place>" occurrence is rewritten to "<code> <place>"
//  3. abbreviations are expanded as whole words, ignoring case
//  4. whitespace runs collapse to a single space
//
// Input and output are NFC. The function is idempotent:
// NormalizeAddress(NormalizeAddress(s)) == NormalizeAddress(s).
func NormalizeAddress(address string) string {
	addr := strings.TrimSpace(strings.Map(foldSpace, norm.NFC.String(address)))
	if addr == "" {
		return ""
	}

	addr = rewritePostalCode(addr)
	for _, a := range abbreviations {
		addr = a.expand(addr)
	}
	addr = strings.Join(strings.Fields(addr), " ")

	return norm.NFC.String(addr)
}

// foldSpace maps the spaces regexp's \s does not know (NBSP, \v, ...) to ' '.
func foldSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

func rewritePostalCode(addr string) string {
	m := postalCodePattern.FindStringSubmatchIndex(addr)
	if m == nil {
		return addr
	}

	code := addr[m[2]:m[3]]
	place := addr[m[4]:m[5]]
	return addr[:m[0]] + code + " " + place + addr[m[1]:]
}

// expand replaces every whole-word match of the rule. Go's \b only knows
// ASCII, so word boundaries are checked here with Unicode classes.
func (a abbreviation) expand(s string) string {
	var (
		b   strings.Builder
		pos int
	)

	for pos <= len(s) {
		loc := a.pattern.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		if !isWordBoundary(s, start) || !isWordBoundary(s, end) {
			b.WriteString(s[pos:start])
			_, size := utf8.DecodeRuneInString(s[start:])
			if size == 0 {
				break
			}
			b.WriteString(s[start : start+size])
			pos = start + size
			continue
		}

		b.WriteString(s[pos:start])
		b.WriteString(a.replacement)
		pos = end
	}

	if pos < len(s) {
		b.WriteString(s[pos:])
	}
	return b.String()
}

// isWordBoundary reports whether a word rune sits on exactly one side of i.
func isWordBoundary(s string, i int) bool {
	var before, after bool
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
