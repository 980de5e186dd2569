// Package g2p provides the stock grapheme-to-phoneme collaborator: a
// pronouncing-dictionary lookup with rule-based letter conversion for
// words the dictionary does not cover. Output labels are ARPAbet-like,
// with stress digits where the dictionary carries them; the resolver is
// responsible for filtering and stripping.
package g2p

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Phonemizer implements synth.Phonemizer.
type Phonemizer struct {
	dict map[string][]string
}

// New returns a phonemizer backed by the built-in dictionary and letter
// rules.
func New() *Phonemizer {
	return &Phonemizer{dict: baseDict()}
}

// NewFromFile loads a CMU-format pronouncing dictionary ("word PH PH ...",
// one entry per line, ;;; comments) on top of the built-in entries.
func NewFromFile(path string) (*Phonemizer, error) {
	p := New()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary: %w", err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		word := strings.ToLower(fields[0])
		// Alternate pronunciations are suffixed "word(2)"; keep the first.
		if i := strings.IndexByte(word, '('); i >= 0 {
			continue
		}
		p.dict[word] = fields[1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return p, nil
}

// Phonemize converts a word to an ordered phoneme label sequence.
func (p *Phonemizer) Phonemize(word string) []string {
	word = strings.ToLower(strings.Trim(word, "'"))
	if word == "" {
		return nil
	}
	if phones, ok := p.dict[word]; ok {
		out := make([]string, len(phones))
		copy(out, phones)
		return out
	}
	return lettersToPhonemes(word)
}

// lettersToPhonemes applies naive spelling rules for out-of-dictionary
// words. Digraphs are handled before single letters; a final silent e is
// dropped.
func lettersToPhonemes(word string) []string {
	// Strip a silent final e ("make", "nose"), but not a lone "e".
	if len(word) > 2 && strings.HasSuffix(word, "e") && !isVowelLetter(word[len(word)-2]) {
		word = word[:len(word)-1]
	}

	var phones []string
	for i := 0; i < len(word); {
		if i+1 < len(word) {
			if ph, ok := digraphs[word[i:i+2]]; ok {
				phones = append(phones, ph...)
				i += 2
				continue
			}
		}
		c := word[i]
		switch c {
		case 'c':
			if i+1 < len(word) && softens(word[i+1]) {
				phones = append(phones, "S")
			} else {
				phones = append(phones, "K")
			}
		case 'g':
			if i+1 < len(word) && softens(word[i+1]) {
				phones = append(phones, "JH")
			} else {
				phones = append(phones, "G")
			}
		case 'x':
			phones = append(phones, "K", "S")
		case 'y':
			if i == 0 {
				phones = append(phones, "Y")
			} else {
				phones = append(phones, "IY")
			}
		default:
			if ph, ok := singles[c]; ok {
				phones = append(phones, ph)
			}
			// Unmapped characters (digits, punctuation) are dropped.
		}
		i++
	}
	return phones
}

func softens(c byte) bool {
	return c == 'e' || c == 'i' || c == 'y'
}

func isVowelLetter(c byte) bool {
	return c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u'
}

var digraphs = map[string][]string{
	"ch": {"CH"},
	"sh": {"SH"},
	"th": {"TH"},
	"ph": {"F"},
	"wh": {"W"},
	"ng": {"NG"},
	"ck": {"K"},
	"qu": {"K", "W"},
	"ee": {"IY"},
	"ea": {"IY"},
	"oo": {"UW"},
	"ou": {"AW"},
	"ow": {"OW"},
	"ai": {"EY"},
	"ay": {"EY"},
	"oa": {"OW"},
	"oi": {"OY"},
	"oy": {"OY"},
	"ar": {"AA", "R"},
	"er": {"ER"},
	"or": {"AO", "R"},
}

var singles = map[byte]string{
	'a': "AE", 'e': "EH", 'i': "IH", 'o': "AA", 'u': "AH",
	'b': "B", 'd': "D", 'f': "F", 'h': "HH", 'j': "JH", 'k': "K",
	'l': "L", 'm': "M", 'n': "N", 'p': "P", 'r': "R", 's': "S",
	't': "T", 'v': "V", 'w': "W", 'z': "Z",
}

// baseDict covers enough common words that short phrases phonemize
// sensibly without an external dictionary file.
func baseDict() map[string][]string {
	return map[string][]string{
		"a":       {"AH0"},
		"about":   {"AH0", "B", "AW1", "T"},
		"all":     {"AO1", "L"},
		"and":     {"AH0", "N", "D"},
		"are":     {"AA1", "R"},
		"as":      {"AE1", "Z"},
		"at":      {"AE1", "T"},
		"be":      {"B", "IY1"},
		"but":     {"B", "AH1", "T"},
		"by":      {"B", "AY1"},
		"can":     {"K", "AE1", "N"},
		"come":    {"K", "AH1", "M"},
		"could":   {"K", "UH1", "D"},
		"day":     {"D", "EY1"},
		"do":      {"D", "UW1"},
		"for":     {"F", "AO1", "R"},
		"from":    {"F", "R", "AH1", "M"},
		"get":     {"G", "EH1", "T"},
		"go":      {"G", "OW1"},
		"good":    {"G", "UH1", "D"},
		"have":    {"HH", "AE1", "V"},
		"he":      {"HH", "IY1"},
		"hello":   {"HH", "AH0", "L", "OW1"},
		"her":     {"HH", "ER0"},
		"here":    {"HH", "IY1", "R"},
		"him":     {"HH", "IH1", "M"},
		"his":     {"HH", "IH1", "Z"},
		"how":     {"HH", "AW1"},
		"i":       {"AY1"},
		"if":      {"IH1", "F"},
		"in":      {"IH0", "N"},
		"is":      {"IH1", "Z"},
		"it":      {"IH1", "T"},
		"know":    {"N", "OW1"},
		"like":    {"L", "AY1", "K"},
		"look":    {"L", "UH1", "K"},
		"make":    {"M", "EY1", "K"},
		"me":      {"M", "IY1"},
		"my":      {"M", "AY1"},
		"no":      {"N", "OW1"},
		"not":     {"N", "AA1", "T"},
		"now":     {"N", "AW1"},
		"of":      {"AH1", "V"},
		"on":      {"AA1", "N"},
		"one":     {"W", "AH1", "N"},
		"or":      {"AO1", "R"},
		"out":     {"AW1", "T"},
		"people":  {"P", "IY1", "P", "AH0", "L"},
		"say":     {"S", "EY1"},
		"see":     {"S", "IY1"},
		"she":     {"SH", "IY1"},
		"so":      {"S", "OW1"},
		"some":    {"S", "AH1", "M"},
		"take":    {"T", "EY1", "K"},
		"than":    {"DH", "AE1", "N"},
		"that":    {"DH", "AE1", "T"},
		"the":     {"DH", "AH0"},
		"their":   {"DH", "EH1", "R"},
		"them":    {"DH", "EH1", "M"},
		"then":    {"DH", "EH1", "N"},
		"there":   {"DH", "EH1", "R"},
		"they":    {"DH", "EY1"},
		"this":    {"DH", "IH1", "S"},
		"time":    {"T", "AY1", "M"},
		"to":      {"T", "UW1"},
		"two":     {"T", "UW1"},
		"um":      {"AH1", "M"},
		"up":      {"AH1", "P"},
		"us":      {"AH1", "S"},
		"want":    {"W", "AA1", "N", "T"},
		"was":     {"W", "AA1", "Z"},
		"we":      {"W", "IY1"},
		"well":    {"W", "EH1", "L"},
		"what":    {"W", "AH1", "T"},
		"when":    {"W", "EH1", "N"},
		"which":   {"W", "IH1", "CH"},
		"who":     {"HH", "UW1"},
		"will":    {"W", "IH1", "L"},
		"with":    {"W", "IH1", "DH"},
		"world":   {"W", "ER1", "L", "D"},
		"would":   {"W", "UH1", "D"},
		"yes":     {"Y", "EH1", "S"},
		"you":     {"Y", "UW1"},
		"your":    {"Y", "AO1", "R"},
	}
}
