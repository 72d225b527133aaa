package codegen

import "strings"

// goKeywords is the fixed reserved-word set; identifiers colliding with it
// are suffixed with "_".
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

func sanitize(name string) string {
	if goKeywords[name] {
		return name + "_"
	}
	return name
}

// exported converts an engine snake_case name to an exported Go identifier.
func exported(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "X" + out
	}
	return out
}

// unexported converts an engine snake_case name to an unexported Go
// identifier, sanitised against the reserved-word set.
func unexported(name string) string {
	out := exported(name)
	out = strings.ToLower(out[:1]) + out[1:]
	return sanitize(out)
}

// fileName is the emitted file name for a class.
func fileName(goName string) string {
	return strings.ToLower(goName) + ".gen.go"
}
