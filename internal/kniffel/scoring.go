package kniffel

// Fixed payouts and thresholds for the standard rules.
const (
	FullHouseScore     = 25
	SmallStraightScore = 30
	LargeStraightScore = 40
	KniffelScore       = 50

	UpperBonusThreshold = 63
	UpperBonusValue     = 35

	// JokerBonusValue is credited once per joker kniffel on a block.
	JokerBonusValue = 100
)

// faceCounts returns how many dice show each face, indexed 1..6.
func faceCounts(dice [5]int) [7]int {
	var counts [7]int
	for _, d := range dice {
		counts[d]++
	}
	return counts
}

func diceSum(dice [5]int) int {
	sum := 0
	for _, d := range dice {
		sum += d
	}
	return sum
}

// Score computes the value of a 5-die roll for the given category.
// Dice must be well-formed (five values in 1..6); that is the caller's
// responsibility.
func Score(cat Category, dice [5]int) int {
	switch cat {
	case Ones, Twos, Threes, Fours, Fives, Sixes:
		face := int(cat) + 1
		return faceCounts(dice)[face] * face
	case ThreeOfAKind:
		return ofAKind(dice, 3)
	case FourOfAKind:
		return ofAKind(dice, 4)
	case FullHouse:
		return fullHouse(dice)
	case SmallStraight:
		return smallStraight(dice)
	case LargeStraight:
		return largeStraight(dice)
	case Kniffel:
		return kniffel(dice)
	case Chance:
		return diceSum(dice)
	}
	panic("kniffel: invalid category " + cat.String())
}

func ofAKind(dice [5]int, n int) int {
	for _, count := range faceCounts(dice) {
		if count >= n {
			return diceSum(dice)
		}
	}
	return 0
}

// fullHouse requires exactly a triple and a pair. Five of a kind does not
// qualify: its count multiset is [5], not [3,2].
func fullHouse(dice [5]int) int {
	hasThree, hasPair := false, false
	for _, count := range faceCounts(dice) {
		switch count {
		case 3:
			hasThree = true
		case 2:
			hasPair = true
		}
	}
	if hasThree && hasPair {
		return FullHouseScore
	}
	return 0
}

var smallStraights = [3][4]int{
	{1, 2, 3, 4},
	{2, 3, 4, 5},
	{3, 4, 5, 6},
}

func smallStraight(dice [5]int) int {
	counts := faceCounts(dice)
	for _, run := range smallStraights {
		found := true
		for _, face := range run {
			if counts[face] == 0 {
				found = false
				break
			}
		}
		if found {
			return SmallStraightScore
		}
	}
	return 0
}

func largeStraight(dice [5]int) int {
	counts := faceCounts(dice)
	// Five distinct faces forming 1-5 or 2-6.
	if counts[2] == 1 && counts[3] == 1 && counts[4] == 1 && counts[5] == 1 &&
		(counts[1] == 1 || counts[6] == 1) {
		return LargeStraightScore
	}
	return 0
}

func kniffel(dice [5]int) int {
	for _, count := range faceCounts(dice) {
		if count == 5 {
			return KniffelScore
		}
	}
	return 0
}

// IsKniffel reports whether all five dice show the same face.
func IsKniffel(dice [5]int) bool {
	return kniffel(dice) == KniffelScore
}

// JokerScore returns the fixed payout used when a second five-of-a-kind is
// scored into a category under the joker rule. face is the value shown on
// the five dice.
func JokerScore(cat Category, face int) int {
	switch cat {
	case Ones, Twos, Threes, Fours, Fives, Sixes:
		want := int(cat) + 1
		if face == want {
			return want * 5
		}
		return 0
	case ThreeOfAKind, FourOfAKind, Chance:
		return face * 5
	case FullHouse:
		return FullHouseScore
	case SmallStraight:
		return SmallStraightScore
	case LargeStraight:
		return LargeStraightScore
	}
	return 0
}
