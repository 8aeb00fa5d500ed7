package kniffel

import "testing"

func TestUpperCategories(t *testing.T) {
	dice := [5]int{3, 3, 3, 5, 1}
	tests := []struct {
		cat  Category
		want int
	}{
		{Ones, 1},
		{Twos, 0},
		{Threes, 9},
		{Fours, 0},
		{Fives, 5},
		{Sixes, 0},
	}
	for _, tt := range tests {
		if got := Score(tt.cat, dice); got != tt.want {
			t.Errorf("Score(%s, %v) = %d, want %d", tt.cat, dice, got, tt.want)
		}
	}
}

func TestOfAKind(t *testing.T) {
	tests := []struct {
		name      string
		dice      [5]int
		wantThree int
		wantFour  int
	}{
		{"three threes", [5]int{3, 3, 3, 5, 1}, 15, 0},
		{"four twos", [5]int{2, 2, 2, 2, 6}, 14, 14},
		{"five fours", [5]int{4, 4, 4, 4, 4}, 20, 20},
		{"pair only", [5]int{2, 2, 4, 5, 6}, 0, 0},
	}
	for _, tt := range tests {
		if got := Score(ThreeOfAKind, tt.dice); got != tt.wantThree {
			t.Errorf("%s: three of a kind = %d, want %d", tt.name, got, tt.wantThree)
		}
		if got := Score(FourOfAKind, tt.dice); got != tt.wantFour {
			t.Errorf("%s: four of a kind = %d, want %d", tt.name, got, tt.wantFour)
		}
	}
}

func TestFullHouse(t *testing.T) {
	tests := []struct {
		name string
		dice [5]int
		want int
	}{
		{"classic full house", [5]int{2, 2, 3, 3, 3}, 25},
		{"five of a kind is not a full house", [5]int{6, 6, 6, 6, 6}, 0},
		{"four of a kind is not a full house", [5]int{2, 2, 2, 2, 3}, 0},
		{"two pair", [5]int{2, 2, 3, 3, 5}, 0},
	}
	for _, tt := range tests {
		if got := Score(FullHouse, tt.dice); got != tt.want {
			t.Errorf("%s: full house = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestStraights(t *testing.T) {
	tests := []struct {
		name      string
		dice      [5]int
		wantSmall int
		wantLarge int
	}{
		{"low large", [5]int{1, 2, 3, 4, 5}, 30, 40},
		{"high large", [5]int{2, 3, 4, 5, 6}, 30, 40},
		{"small with pair", [5]int{1, 2, 3, 4, 4}, 30, 0},
		{"mid small", [5]int{2, 3, 4, 5, 2}, 30, 0},
		{"high small", [5]int{3, 4, 5, 6, 6}, 30, 0},
		{"gap", [5]int{1, 2, 3, 5, 6}, 0, 0},
		{"1-2-3-4-6 is only small", [5]int{1, 2, 3, 4, 6}, 30, 0},
	}
	for _, tt := range tests {
		if got := Score(SmallStraight, tt.dice); got != tt.wantSmall {
			t.Errorf("%s: small straight = %d, want %d", tt.name, got, tt.wantSmall)
		}
		if got := Score(LargeStraight, tt.dice); got != tt.wantLarge {
			t.Errorf("%s: large straight = %d, want %d", tt.name, got, tt.wantLarge)
		}
	}
}

func TestKniffelAndChance(t *testing.T) {
	if got := Score(Kniffel, [5]int{5, 5, 5, 5, 5}); got != 50 {
		t.Errorf("kniffel = %d, want 50", got)
	}
	if got := Score(Kniffel, [5]int{5, 5, 5, 5, 4}); got != 0 {
		t.Errorf("four fives scored as kniffel = %d, want 0", got)
	}
	if got := Score(Chance, [5]int{1, 3, 4, 6, 6}); got != 20 {
		t.Errorf("chance = %d, want 20", got)
	}
}

func TestKniffelExclusive(t *testing.T) {
	// Every five-of-a-kind scores exactly 50 as kniffel and 0 as full house.
	for face := 1; face <= 6; face++ {
		dice := [5]int{face, face, face, face, face}
		if got := Score(Kniffel, dice); got != 50 {
			t.Errorf("kniffel(%v) = %d, want 50", dice, got)
		}
		if got := Score(FullHouse, dice); got != 0 {
			t.Errorf("full house(%v) = %d, want 0", dice, got)
		}
	}
}

func TestJokerScore(t *testing.T) {
	tests := []struct {
		cat  Category
		face int
		want int
	}{
		{Ones, 1, 5},
		{Ones, 4, 0},
		{Sixes, 6, 30},
		{ThreeOfAKind, 4, 20},
		{FourOfAKind, 6, 30},
		{Chance, 2, 10},
		{FullHouse, 3, 25},
		{SmallStraight, 5, 30},
		{LargeStraight, 1, 40},
	}
	for _, tt := range tests {
		if got := JokerScore(tt.cat, tt.face); got != tt.want {
			t.Errorf("JokerScore(%s, %d) = %d, want %d", tt.cat, tt.face, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, cat := range Categories() {
		got, err := ParseCategory(cat.String())
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", cat.String(), err)
		}
		if got != cat {
			t.Fatalf("ParseCategory(%q) = %v, want %v", cat.String(), got, cat)
		}
	}
	if _, err := ParseCategory("yahtzee"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
