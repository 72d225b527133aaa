package api

import (
	"regexp"
	"strings"
)

// codeblockNote is prepended once to any description containing a code
// sample, since samples in the engine docs are GDScript unless they say
// otherwise.
const codeblockNote = "_Sample code is GDScript unless otherwise noted._\n\n"

var (
	urlRe = regexp.MustCompile(`\[url=([^\]]*)\]([^\[]*)\[/url\]`)
	// The signal pass must run before the member/class passes so the
	// inline-code text it produces is not re-matched.
	signalRe     = regexp.MustCompile(`\[signal ([A-Za-z0-9_]+)\]`)
	qualMemberRe = regexp.MustCompile(`\[(?:member|method|constant) ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)\]`)
	selfMemberRe = regexp.MustCompile(`\[(?:member|method|constant) ([A-Za-z0-9_]+)\]`)
	// The trailing group catches a bracket pair directly followed by "(":
	// that is a markdown link the url pass already emitted, and must not be
	// re-matched here.
	classLinkRe = regexp.MustCompile(`(?:\[enum ([A-Za-z0-9_.]+)\]|\[([A-Z][A-Za-z0-9_]*)\])(\()?`)
)

// Reformat rewrites a BBCode description into the emitter's documentation
// dialect. The textual rules are applied in a fixed order; earlier matches
// must not be re-matched by later passes.
func Reformat(text string) string {
	if text == "" {
		return ""
	}

	out := text

	if strings.Contains(out, "[codeblock]") {
		out = codeblockNote + out
	}

	replacer := strings.NewReplacer(
		"[codeblock]", "```gdscript",
		"[/codeblock]", "```",
		"[code]", "`",
		"[/code]", "`",
		"[b]", "**",
		"[/b]", "**",
		"[i]", "*",
		"[/i]", "*",
	)
	out = replacer.Replace(out)

	out = urlRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := urlRe.FindStringSubmatch(m)
		url, label := sub[1], sub[2]
		if label == "" {
			return "<" + url + ">"
		}
		return "[" + label + "](" + url + ")"
	})

	out = signalRe.ReplaceAllString(out, "`$1`")

	out = qualMemberRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := qualMemberRe.FindStringSubmatch(m)
		class, member := TranslateClassName(sub[1]), sub[2]
		return "[`" + class + "." + member + "`][" + class + "::" + member + "]"
	})

	out = selfMemberRe.ReplaceAllString(out, "[`$1`][Self::$1]")

	out = classLinkRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := classLinkRe.FindStringSubmatch(m)
		if sub[3] == "(" {
			return m
		}
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		name = TranslateClassName(name)
		return "[`" + name + "`][" + name + "]"
	})

	return out
}
