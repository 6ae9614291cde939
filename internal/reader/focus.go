package reader

import "github.com/metcalfc/jrr/internal/chunk"

// GetORPPosition returns the Optimal Recognition Point index for a run of
// n characters.
func GetORPPosition(n int) int {
	if n <= 1 {
		return 0
	} else if n <= 5 {
		return 1
	}
	return n / 3
}

// FocusPosition returns the rune index in surface where the eye should
// rest. Leading opening brackets and trailing closing punctuation are not
// counted, so 「こんにちは」 focuses on ん just like こんにちは does.
func FocusPosition(surface string) int {
	runes := []rune(surface)
	lead := 0
	for lead < len(runes) && chunk.IsOpening(runes[lead]) {
		lead++
	}
	trail := 0
	for trail < len(runes)-lead && chunk.IsClosing(runes[len(runes)-1-trail]) {
		trail++
	}
	core := len(runes) - lead - trail
	if core == 0 {
		return GetORPPosition(len(runes))
	}
	return lead + GetORPPosition(core)
}

// SplitFocus splits surface around its focus character.
func SplitFocus(surface string) (before, focus, after string) {
	runes := []rune(surface)
	if len(runes) == 0 {
		return "", "", ""
	}
	i := FocusPosition(surface)
	return string(runes[:i]), string(runes[i]), string(runes[i+1:])
}
