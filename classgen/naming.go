package classgen

import (
	"strings"
	"unicode"
)

// ScriptName converts a Go method name to a member name.
// e.g., "Increment" → "increment", "HTTPStatus" → "httpStatus",
// "ID" → "id"
func ScriptName(goName string) string {
	runes := []rune(goName)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return goName
	case n > 1 && n < len(runes):
		// keep the last capital of an initialism for the next word
		n--
	}
	return strings.ToLower(string(runes[:n])) + string(runes[n:])
}

// AccessorName splits an accessor method name into its prefix ("Get" or
// "Set") and member name. ok is false for other names.
// e.g., "GetValue" → ("Get", "value"), "SetURL" → ("Set", "url")
func AccessorName(goName string) (prefix, name string, ok bool) {
	for _, p := range []string{"Get", "Set"} {
		rest, found := strings.CutPrefix(goName, p)
		if !found || rest == "" || !unicode.IsUpper([]rune(rest)[0]) {
			continue
		}
		return p, ScriptName(rest), true
	}
	return "", "", false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
