package engine

// Built-in pinyin mapping tables. Keys are positions on the standard
// bopomofo layout (keyStrings[LayoutDefault]), so a translated syllable can
// be replayed through stepDefault directly. An external mapping file loaded
// with LoadPinyinTable overrides these.

// hanyuInitials maps Hanyu pinyin initial spellings to standard-layout keys,
// longest spelling first among shared prefixes (zh before z is handled by
// the longest-prefix rule in translate).
var hanyuInitials = []pinyinEntry{
	{"b", "1"}, {"p", "q"}, {"m", "a"}, {"f", "z"},
	{"d", "2"}, {"t", "w"}, {"n", "s"}, {"l", "x"},
	{"g", "e"}, {"k", "d"}, {"h", "c"},
	{"j", "r"}, {"q", "f"}, {"x", "v"},
	{"zh", "5"}, {"ch", "t"}, {"sh", "g"}, {"r", "b"},
	{"z", "y"}, {"c", "h"}, {"s", "n"},
}

var hanyuFinals = []pinyinEntry{
	{"i", "u"}, {"u", "j"}, {"v", "m"},
	{"a", "8"}, {"o", "i"}, {"e", "k"},
	{"ai", "9"}, {"ei", "o"}, {"ao", "l"}, {"ou", "."},
	{"an", "0"}, {"en", "p"}, {"ang", ";"}, {"eng", "/"}, {"er", "-"},
	{"ia", "u8"}, {"ie", "u,"}, {"iao", "ul"}, {"iu", "u."},
	{"ian", "u0"}, {"in", "up"}, {"iang", "u;"}, {"ing", "u/"},
	{"ua", "j8"}, {"uo", "ji"}, {"uai", "j9"}, {"ui", "jo"},
	{"uan", "j0"}, {"un", "jp"}, {"uang", "j;"}, {"ong", "j/"},
	{"ue", "m,"}, {"ve", "m,"}, {"van", "m0"}, {"vn", "mp"}, {"iong", "m/"},
}

// hanyuWhole covers the zero-initial y-/w- spellings whose bopomofo reading
// cannot be split into an initial prefix plus a final suffix.
var hanyuWhole = map[string]string{
	"yi": "u", "ya": "u8", "ye": "u,", "yao": "ul", "you": "u.",
	"yan": "u0", "yin": "up", "yang": "u;", "ying": "u/",
	"yu": "m", "yue": "m,", "yuan": "m0", "yun": "mp", "yong": "m/",
	"wu": "j", "wa": "j8", "wo": "ji", "wai": "j9", "wei": "jo",
	"wan": "j0", "wen": "jp", "wang": "j;", "weng": "j/",
}

// THL spells the retroflex initial ㄓ as "jh" and writes ü as "yu";
// everything else follows the Hanyu table.
var thlInitials = append([]pinyinEntry{
	{"jh", "5"},
}, hanyuInitials...)

var thlFinals = append([]pinyinEntry{
	{"yu", "m"}, {"yue", "m,"}, {"yuan", "m0"}, {"yun", "mp"},
	{"iou", "u."}, {"uei", "jo"}, {"uen", "jp"},
}, hanyuFinals...)

// MPS2 spells ㄗㄘ as tz/ts and overloads j/ch/sh between the retroflex and
// palatal rows; the palatal reading is restored by translate when the final
// opens with ㄧ or ㄩ.
var mps2Initials = []pinyinEntry{
	{"b", "1"}, {"p", "q"}, {"m", "a"}, {"f", "z"},
	{"d", "2"}, {"t", "w"}, {"n", "s"}, {"l", "x"},
	{"g", "e"}, {"k", "d"}, {"h", "c"},
	{"j", "5"}, {"ch", "t"}, {"sh", "g"}, {"r", "b"},
	{"tz", "y"}, {"ts", "h"}, {"s", "n"},
}

var mps2Finals = append([]pinyinEntry{
	{"iu", "m"}, {"iue", "m,"}, {"iuan", "m0"}, {"iun", "mp"},
}, hanyuFinals...)

var builtinPinyinTables = map[Layout]*PinyinTable{
	LayoutHanyuPinyin: {initials: hanyuInitials, finals: hanyuFinals, whole: hanyuWhole},
	LayoutTHLPinyin:   {initials: thlInitials, finals: thlFinals, whole: hanyuWhole},
	LayoutMPS2Pinyin:  {initials: mps2Initials, finals: mps2Finals, whole: hanyuWhole},
}

// BuiltinPinyinTable returns the compiled-in mapping for a pinyin-family
// layout, or nil for any other layout.
func BuiltinPinyinTable(layout Layout) *PinyinTable {
	return builtinPinyinTables[layout]
}
