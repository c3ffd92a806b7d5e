package grading

import "strings"

// DefaultTip is returned for words without a dedicated hint.
const DefaultTip = "Practice slowly"

var tips = map[string]string{
	"the":       "Tongue between teeth",
	"and":       "Short a sound",
	"but":       "Short u sound",
	"for":       `Say "f-or"`,
	"through":   `Say "th-rew"`,
	"thought":   "Th + aw + t",
	"could":     "Silent l",
	"would":     "Silent l",
	"should":    "Silent l",
	"people":    "Pee + pull",
	"because":   "Be + cause",
	"different": "Diff + rent",
	"important": "Im + por + tant",
	"beautiful": "Byoo + ti + ful",
	"this":      "Th + is",
	"that":      "Th + at",
	"these":     "Th + eez",
	"those":     "Th + ohz",
	"know":      "Silent k",
	"write":     "Silent w",
	"right":     "Rite",
	"light":     "Lite",
	"night":     "Nite",
	"said":      "Sed",
	"have":      `Like "hat"`,
	"were":      `Like "her"`,
	"where":     "Wh + air",
	"there":     "Th + air",
}

// Tip returns a short pronunciation hint for word.
func Tip(word string) string {
	if t, ok := tips[strings.ToLower(strings.TrimSpace(word))]; ok {
		return t
	}
	return DefaultTip
}
