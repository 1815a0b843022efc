package typing

// plausibleTypos maps a lowercase letter to the QWERTY keys around it.
var plausibleTypos = map[rune][]rune{
	'q': {'w', 'a'},
	'w': {'q', 'e', 's'},
	'e': {'w', 'r', 'd'},
	'r': {'e', 't', 'f'},
	't': {'r', 'y', 'g'},
	'y': {'t', 'u', 'h'},
	'u': {'y', 'i', 'j'},
	'i': {'u', 'o', 'k'},
	'o': {'i', 'p', 'l'},
	'p': {'o', '[', ';'},
	'a': {'s', 'q'},
	's': {'a', 'w', 'd'},
	'd': {'s', 'f', 'e'},
	'f': {'d', 'g', 'r'},
	'g': {'f', 'h', 't'},
	'h': {'g', 'j', 'y'},
	'j': {'h', 'k', 'i'},
	'k': {'j', 'l', 'o'},
	'l': {'k', 'o', 'p', ';'},
	'z': {'a', 'x', 's'},
	'x': {'z', 'c', 's'},
	'c': {'x', 'v', 'd'},
	'v': {'c', 'b', 'f'},
	'b': {'v', 'n', 'g'},
	'n': {'b', 'm', 'h'},
	'm': {'n', 'j', 'k', ','},
}

// handAlternation holds bigrams typed by alternating hands, which come out
// 30-60ms faster than same-hand pairs.
var handAlternation = map[string]struct{}{
	"al": {}, "la": {}, "ak": {}, "ka": {}, "am": {}, "ma": {},
	"an": {}, "na": {}, "ai": {}, "ia": {}, "so": {}, "os": {},
	"sp": {}, "ps": {}, "en": {}, "ne": {}, "em": {}, "me": {},
	"el": {}, "le": {}, "ep": {}, "pe": {},
}

// Candidates returns the typo candidates for r, or nil when r has none.
func Candidates(r rune) []rune {
	return plausibleTypos[r]
}

// IsAlternation reports whether prev followed by next alternates hands.
func IsAlternation(prev, next rune) bool {
	_, ok := handAlternation[string([]rune{prev, next})]
	return ok
}
