// Package bot plays AI seats with a one-ply greedy strategy: keep the
// strongest face group, stop rolling once a made hand pays well, and
// score the best-paying open category.
package bot

import (
	"kniffel/internal/kniffel"
	"kniffel/internal/session"
)

// Greedy implements session.Autoplayer.
type Greedy struct{}

// KeepMask keeps every die showing the most frequent face (higher faces
// win ties) and re-rolls the rest. It stops rolling early once the best
// open category already pays at least a full house.
func (Greedy) KeepMask(roll session.TurnRoll, block *kniffel.ScoreBlock) ([5]bool, bool) {
	dice := roll.Values
	if bestOpenScore(dice, block) >= kniffel.FullHouseScore {
		return [5]bool{}, false
	}

	var counts [7]int
	for _, d := range dice {
		counts[d]++
	}
	face := 0
	for f := 1; f <= 6; f++ {
		if counts[f] >= counts[face] {
			face = f
		}
	}

	var keep [5]bool
	for i, d := range dice {
		if d == face {
			keep[i] = true
		}
	}
	return keep, true
}

// PickCategory scores the roll against every open slot on every block and
// takes the highest payout. When everything scores zero this naturally
// dumps into the earliest open category.
func (Greedy) PickCategory(dice [5]int, blocks []*kniffel.ScoreBlock, jokerEnabled bool) (kniffel.Category, int) {
	bestCat := kniffel.Ones
	bestBlock := 0
	bestScore := -1
	for bi, block := range blocks {
		joker := kniffel.CanUseJoker(block, dice, jokerEnabled)
		for _, cat := range kniffel.Categories() {
			if !block.IsOpen(cat) {
				continue
			}
			score := kniffel.Score(cat, dice)
			if joker {
				score = kniffel.JokerScore(cat, dice[0])
			}
			if score > bestScore {
				bestCat, bestBlock, bestScore = cat, bi, score
			}
		}
	}
	return bestCat, bestBlock
}

func bestOpenScore(dice [5]int, block *kniffel.ScoreBlock) int {
	best := 0
	for _, cat := range kniffel.Categories() {
		if !block.IsOpen(cat) {
			continue
		}
		if s := kniffel.Score(cat, dice); s > best {
			best = s
		}
	}
	return best
}
