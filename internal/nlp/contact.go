package nlp

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContactInfo is the name and phone number recovered from one free-text
// message. Either field may stay empty when nothing plausible was found.
type ContactInfo struct {
	Name  string
	Phone string
}

// HasName reports whether a name was recovered.
func (c ContactInfo) HasName() bool { return c.Name != "" }

// HasPhone reports whether a phone number was recovered.
func (c ContactInfo) HasPhone() bool { return c.Phone != "" }

const (
	minNameLen  = 2
	maxNameLen  = 50
	minPhoneLen = 9
	maxPhoneLen = 12
)

// Phone patterns are tried in order; the first hit wins. Peruvian mobile
// numbers are nine digits, optionally prefixed with +51 and grouped 3-3-3.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\+51\s?)?\d{3}[\s\-]?\d{3}[\s\-]?\d{3}`),
	regexp.MustCompile(`\d{9}`),
	regexp.MustCompile(`\d{3}[\s\-]?\d{3}[\s\-]?\d{3}`),
}

// Labeled name patterns: the capture runs from the label up to a trailing
// telephone cue word. Tried in order.
const phoneCue = `(?:\s+y)?\s+(?:mi\s+)?(?:tel[eé]fono|celular|cel)\b`

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)mi nombre es\s+([^,\n]+?)` + phoneCue),
	regexp.MustCompile(`(?i)me llamo\s+([^,\n]+?)` + phoneCue),
	regexp.MustCompile(`(?i)soy\s+([^,\n]+?)` + phoneCue),
	regexp.MustCompile(`(?i)nombre\s*:?\s+([^,\n]+?)` + phoneCue),
}

// contactStopWords are filler tokens dropped when reconstructing a name
// from the leftover text around a phone number.
var contactStopWords = map[string]struct{}{
	"mi": {}, "nombre": {}, "es": {}, "y": {},
	"telefono": {}, "teléfono": {}, "celular": {}, "cel": {},
	"numero": {}, "número": {}, "num": {},
}

// ExtractContactInfo pulls a person name and a phone number out of a single
// message using layered heuristics:
//
//   - phone: the first phone pattern that matches, separators stripped;
//   - name: labeled phrases first ("mi nombre es ...", "me llamo ...",
//     "soy ...", "nombre ..."); then, if a phone was found, the message
//     minus the phone and stop words; then capitalized-token runs; finally
//     a fully-capitalized whole message.
//
// Out-of-bounds candidates are discarded: names shorter than 2 or longer
// than 50 characters, phones with fewer than 9 or more than 12 digits.
func ExtractContactInfo(message string) ContactInfo {
	var info ContactInfo

	for _, re := range phonePatterns {
		if m := re.FindString(message); m != "" {
			info.Phone = strings.NewReplacer(" ", "", "-", "").Replace(m)
			break
		}
	}
	if info.Phone != "" {
		if n := countDigits(info.Phone); n < minPhoneLen || n > maxPhoneLen {
			info.Phone = ""
		}
	}

	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(message); m != nil {
			info.Name = strings.TrimSpace(m[1])
			break
		}
	}

	if info.Name == "" && info.Phone != "" {
		info.Name = nameFromLeftover(message)
	}
	if info.Name == "" {
		info.Name = nameFromCapitalized(message)
	}
	if info.Name == "" && info.Phone == "" {
		info.Name = nameFromWholeMessage(message)
	}

	if l := utf8.RuneCountInString(info.Name); l < minNameLen || l > maxNameLen {
		info.Name = ""
	}
	return info
}

// nameFromLeftover strips phone patterns and stop words from the message
// and keeps the capitalized tokens that survive, so "claro, soy Rosa
// Mendoza al 988877665" yields "Rosa Mendoza".
func nameFromLeftover(message string) string {
	rest := message
	for _, re := range phonePatterns {
		rest = re.ReplaceAllString(rest, " ")
	}
	var kept []string
	for _, w := range strings.Fields(rest) {
		if _, stop := contactStopWords[strings.ToLower(w)]; stop {
			continue
		}
		if utf8.RuneCountInString(w) <= 2 || allDigits(w) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(w); unicode.IsUpper(r) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// nameFromCapitalized joins the message's capitalized tokens longer than
// two characters.
func nameFromCapitalized(message string) string {
	var kept []string
	for _, w := range strings.Fields(message) {
		if utf8.RuneCountInString(w) <= 2 || allDigits(w) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(r) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// nameFromWholeMessage accepts the entire message as a name when every word
// is capitalized, for replies like "Juan Carlos Pérez".
func nameFromWholeMessage(message string) string {
	words := strings.Fields(message)
	if len(words) == 0 {
		return ""
	}
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) || allDigits(w) {
			return ""
		}
	}
	if len(words) == 1 && utf8.RuneCountInString(words[0]) <= 2 {
		return ""
	}
	return strings.Join(words, " ")
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
