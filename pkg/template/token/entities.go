package token

import (
	"strconv"
	"strings"
)

// namedEntities covers the common named character references; it is
// not the full HTML5 entity table, which runs to thousands of names
// most templates never use.
var namedEntities = map[string]string{
	"amp":     "&",
	"lt":      "<",
	"gt":      ">",
	"quot":    "\"",
	"apos":    "'",
	"nbsp":    " ",
	"copy":    "©",
	"reg":     "®",
	"trade":   "™",
	"hellip":  "…",
	"mdash":   "—",
	"ndash":   "–",
	"lsquo":   "‘",
	"rsquo":   "’",
	"ldquo":   "“",
	"rdquo":   "”",
}

// DecodeEntities replaces named and numeric character references in
// raw with their decoded text. Decoding happens once, downstream of
// the tokenizer (which only ever records offsets), when the parser
// finalizes a Text or attribute-value node's string content.
//
// inAttribute applies the stricter attribute-context rule: a named
// reference with no terminating ';' is only decoded if what follows
// is not '=' or an alphanumeric — otherwise it's left as literal text
// (e.g. "&amp=foo" stays literal in an attribute value but decodes to
// "&=foo" in text).
func DecodeEntities(raw string, inAttribute bool) string {
	if !strings.ContainsRune(raw, '&') {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '&' {
			b.WriteByte(raw[i])
			continue
		}
		rest := raw[i+1:]
		if decoded, consumed, ok := decodeReference(rest, inAttribute); ok {
			b.WriteString(decoded)
			i += consumed
			continue
		}
		b.WriteByte('&')
	}
	return b.String()
}

// decodeReference attempts to decode one reference starting just
// after '&' in s, returning the decoded text and how many bytes of s
// (not counting the leading '&') it consumed.
func decodeReference(s string, inAttribute bool) (decoded string, consumed int, ok bool) {
	if s == "" {
		return "", 0, false
	}
	if s[0] == '#' {
		return decodeNumericReference(s)
	}
	end := 0
	for end < len(s) && isAlnum(s[end]) {
		end++
	}
	if end == 0 {
		return "", 0, false
	}
	name := s[:end]
	terminated := end < len(s) && s[end] == ';'
	if !terminated && inAttribute {
		next := byte(0)
		if end < len(s) {
			next = s[end]
		}
		if next == '=' || isAlnum(next) {
			return "", 0, false
		}
	}
	val, known := namedEntities[name]
	if !known {
		return "", 0, false
	}
	if terminated {
		end++
	}
	return val, end, true
}

func decodeNumericReference(s string) (decoded string, consumed int, ok bool) {
	i := 1
	hex := false
	if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
		hex = true
		i++
	}
	digitsStart := i
	for i < len(s) && isDigitForBase(s[i], hex) {
		i++
	}
	if i == digitsStart {
		return "", 0, false
	}
	digits := s[digitsStart:i]
	base := 10
	if hex {
		base = 16
	}
	code, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return "", 0, false
	}
	if i < len(s) && s[i] == ';' {
		i++
	}
	return string(rune(code)), i, true
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigitForBase(b byte, hex bool) bool {
	if hex {
		return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	}
	return b >= '0' && b <= '9'
}
