package bot

import (
	"testing"

	"kniffel/internal/kniffel"
	"kniffel/internal/session"
)

func TestKeepMaskKeepsMajorityFace(t *testing.T) {
	roll := session.TurnRoll{RollNumber: 1, Values: [5]int{4, 4, 2, 4, 6}}
	keep, again := Greedy{}.KeepMask(roll, kniffel.NewScoreBlock())
	if !again {
		t.Fatal("expected bot to keep rolling")
	}
	want := [5]bool{true, true, false, true, false}
	if keep != want {
		t.Fatalf("keep mask = %v, want %v", keep, want)
	}
}

func TestKeepMaskStopsOnMadeHand(t *testing.T) {
	roll := session.TurnRoll{RollNumber: 1, Values: [5]int{2, 3, 4, 5, 6}}
	_, again := Greedy{}.KeepMask(roll, kniffel.NewScoreBlock())
	if again {
		t.Fatal("expected bot to stop on a large straight")
	}
}

func TestPickCategoryTakesBestPayout(t *testing.T) {
	block := kniffel.NewScoreBlock()
	cat, bi := Greedy{}.PickCategory([5]int{6, 6, 6, 6, 6}, []*kniffel.ScoreBlock{block}, false)
	if cat != kniffel.Kniffel || bi != 0 {
		t.Fatalf("picked %s on block %d, want kniffel on block 0", cat, bi)
	}
}

func TestPickCategorySkipsClosedSlots(t *testing.T) {
	block := kniffel.NewScoreBlock()
	block.Set(kniffel.Chance, 20)
	block.Set(kniffel.Sixes, 18)
	cat, _ := Greedy{}.PickCategory([5]int{6, 6, 6, 1, 2}, []*kniffel.ScoreBlock{block}, false)
	if cat == kniffel.Chance || cat == kniffel.Sixes {
		t.Fatalf("picked closed category %s", cat)
	}
	if cat != kniffel.ThreeOfAKind {
		t.Fatalf("picked %s, want three of a kind", cat)
	}
}

func TestPickCategoryUsesJokerPayout(t *testing.T) {
	block := kniffel.NewScoreBlock()
	block.Set(kniffel.Kniffel, 50)
	cat, _ := Greedy{}.PickCategory([5]int{6, 6, 6, 6, 6}, []*kniffel.ScoreBlock{block}, true)
	// Joker payouts: large straight 40 beats sixes 30 and 6x5=30 elsewhere.
	if cat != kniffel.LargeStraight {
		t.Fatalf("picked %s, want large straight joker payout", cat)
	}
}
