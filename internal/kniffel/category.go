package kniffel

import "fmt"

// Category identifies one of the 13 scorecard slots.
type Category int

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeOfAKind
	FourOfAKind
	FullHouse
	SmallStraight
	LargeStraight
	Kniffel
	Chance

	// NumCategories is the number of slots on one score block.
	NumCategories = 13
)

var categoryNames = [NumCategories]string{
	"ones", "twos", "threes", "fours", "fives", "sixes",
	"three_of_kind", "four_of_kind", "full_house",
	"small_straight", "large_straight", "kniffel", "chance",
}

func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// IsUpper reports whether the category belongs to the upper section.
func (c Category) IsUpper() bool {
	return c >= Ones && c <= Sixes
}

// ParseCategory maps a wire name to its Category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// Categories returns all 13 categories in scorecard order.
func Categories() []Category {
	cats := make([]Category, NumCategories)
	for i := range cats {
		cats[i] = Category(i)
	}
	return cats
}
