package kniffel

import "fmt"

// Mode selects the game variant.
type Mode string

const (
	ModeClassic     Mode = "classic"
	ModeMustKeepOne Mode = "must_keep_one"
	ModeMultiBlock  Mode = "multi_block"
)

// ParseMode validates a wire mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClassic, ModeMustKeepOne, ModeMultiBlock:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// ValidateKeep reports whether a proposed kept-mask is a legal transition
// from the previous one. Callers apply it only to re-rolls (roll 2 and 3);
// the first roll of a turn is unconstrained in every mode.
//
// In must-keep-one mode at least one die that was not kept before must be
// kept now. Classic and multi-block allow any mask.
func ValidateKeep(mode Mode, prevKept, nextKept [5]bool) bool {
	if mode != ModeMustKeepOne {
		return true
	}
	for i := range nextKept {
		if nextKept[i] && !prevKept[i] {
			return true
		}
	}
	return false
}

// CanUseJoker reports whether the joker rule applies: the block's kniffel
// slot already holds the full 50, the current roll is itself five of a
// kind, and the session has the rule enabled. A kniffel slot scored as 0
// does not qualify.
func CanUseJoker(block *ScoreBlock, dice [5]int, jokerEnabled bool) bool {
	if !jokerEnabled {
		return false
	}
	v, ok := block.Get(Kniffel)
	if !ok || v != KniffelScore {
		return false
	}
	return IsKniffel(dice)
}
