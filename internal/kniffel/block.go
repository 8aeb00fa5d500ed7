package kniffel

// ScoreBlock is one 13-category scorecard. A slot is nil until scored and
// write-once afterwards. Totals are derived on read, never stored.
type ScoreBlock struct {
	Scores     [NumCategories]*int `json:"scores"`
	JokerCount int                 `json:"jokerCount"`
}

// NewScoreBlock returns an empty block.
func NewScoreBlock() *ScoreBlock {
	return &ScoreBlock{}
}

// IsOpen reports whether the category has not been scored yet.
func (b *ScoreBlock) IsOpen(cat Category) bool {
	return b.Scores[cat] == nil
}

// Get returns the stored score for a category, if set.
func (b *ScoreBlock) Get(cat Category) (int, bool) {
	if b.Scores[cat] == nil {
		return 0, false
	}
	return *b.Scores[cat], true
}

// Set writes a score into an open category. Writing a closed slot is a
// programming error; callers must check IsOpen first.
func (b *ScoreBlock) Set(cat Category, score int) {
	if b.Scores[cat] != nil {
		panic("kniffel: category " + cat.String() + " already scored")
	}
	v := score
	b.Scores[cat] = &v
}

// UpperSum is the sum of the six upper-section slots.
func (b *ScoreBlock) UpperSum() int {
	sum := 0
	for cat := Ones; cat <= Sixes; cat++ {
		if v := b.Scores[cat]; v != nil {
			sum += *v
		}
	}
	return sum
}

// UpperBonus is 35 once the upper sum reaches 63, else 0.
func (b *ScoreBlock) UpperBonus() int {
	if b.UpperSum() >= UpperBonusThreshold {
		return UpperBonusValue
	}
	return 0
}

// LowerSum is the sum of the seven lower-section slots.
func (b *ScoreBlock) LowerSum() int {
	sum := 0
	for cat := ThreeOfAKind; cat <= Chance; cat++ {
		if v := b.Scores[cat]; v != nil {
			sum += *v
		}
	}
	return sum
}

// JokerBonus is the accumulated joker kniffel credit.
func (b *ScoreBlock) JokerBonus() int {
	return b.JokerCount * JokerBonusValue
}

// Total is the grand total: upper sum + upper bonus + lower sum + joker bonus.
func (b *ScoreBlock) Total() int {
	return b.UpperSum() + b.UpperBonus() + b.LowerSum() + b.JokerBonus()
}

// Complete reports whether all 13 slots have been scored.
func (b *ScoreBlock) Complete() bool {
	for _, v := range b.Scores {
		if v == nil {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the block.
func (b *ScoreBlock) Clone() *ScoreBlock {
	c := &ScoreBlock{JokerCount: b.JokerCount}
	for i, v := range b.Scores {
		if v != nil {
			n := *v
			c.Scores[i] = &n
		}
	}
	return c
}
