package nativescript

import (
	"fmt"
	"strings"
)

// Editor hint kinds, matching the engine's property-hint enumeration.
const (
	hintNone          int32 = 0
	hintRange         int32 = 1
	hintExpRange      int32 = 2
	hintEnum          int32 = 3
	hintExpEasing     int32 = 4
	hintLength        int32 = 5
	hintFlags         int32 = 8
	hintFile          int32 = 13
	hintDir           int32 = 14
	hintGlobalFile    int32 = 15
	hintGlobalDir     int32 = 16
	hintResourceType  int32 = 17
	hintMultilineText int32 = 18
	hintColorNoAlpha  int32 = 20
)

// PropertyHint is one kind-specific editor hint.
type PropertyHint struct {
	Kind   int32
	String string
}

// HintNone declares no hint.
func HintNone() PropertyHint { return PropertyHint{Kind: hintNone} }

// HintRange constrains a numeric property to [min, max] with a step.
func HintRange(min, max, step float64) PropertyHint {
	return PropertyHint{Kind: hintRange, String: fmt.Sprintf("%v,%v,%v", min, max, step)}
}

// HintExpRange is HintRange with exponential editor scaling.
func HintExpRange(min, max, step float64) PropertyHint {
	return PropertyHint{Kind: hintExpRange, String: fmt.Sprintf("%v,%v,%v", min, max, step)}
}

// HintEnum restricts the property to one of the named values.
func HintEnum(values ...string) PropertyHint {
	return PropertyHint{Kind: hintEnum, String: strings.Join(values, ",")}
}

// HintFlags presents the property as a named bit-flag set.
func HintFlags(flags ...string) PropertyHint {
	return PropertyHint{Kind: hintFlags, String: strings.Join(flags, ",")}
}

// HintExpEasing presents an easing-curve editor.
func HintExpEasing() PropertyHint { return PropertyHint{Kind: hintExpEasing} }

// HintLength caps the length of a string property.
func HintLength(max int) PropertyHint {
	return PropertyHint{Kind: hintLength, String: fmt.Sprintf("%d", max)}
}

// HintFile presents a project-local file picker filtered to the given
// patterns, e.g. "*.png".
func HintFile(filters ...string) PropertyHint {
	return PropertyHint{Kind: hintFile, String: strings.Join(filters, ",")}
}

// HintDir presents a project-local directory picker.
func HintDir() PropertyHint { return PropertyHint{Kind: hintDir} }

// HintGlobalFile presents a filesystem-wide file picker.
func HintGlobalFile(filters ...string) PropertyHint {
	return PropertyHint{Kind: hintGlobalFile, String: strings.Join(filters, ",")}
}

// HintGlobalDir presents a filesystem-wide directory picker.
func HintGlobalDir() PropertyHint { return PropertyHint{Kind: hintGlobalDir} }

// HintResourceType restricts an object property to a resource class.
func HintResourceType(class string) PropertyHint {
	return PropertyHint{Kind: hintResourceType, String: class}
}

// HintMultiline presents a multi-line text editor.
func HintMultiline() PropertyHint { return PropertyHint{Kind: hintMultilineText} }

// HintColorNoAlpha presents a color picker without an alpha channel.
func HintColorNoAlpha() PropertyHint { return PropertyHint{Kind: hintColorNoAlpha} }
