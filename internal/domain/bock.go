package domain

// BockRoundsPerTrigger is how many bock rounds a Herz-Rundlauf grants.
const BockRoundsPerTrigger = 4

// BockCounter tracks how many upcoming rounds are played for double points.
// The zero value is a counter at zero. The counter never goes negative.
type BockCounter struct {
	count int
}

// NewBockCounter returns a counter at the given value, clamped at zero.
func NewBockCounter(count int) *BockCounter {
	if count < 0 {
		count = 0
	}
	return &BockCounter{count: count}
}

// Count returns the number of bock rounds remaining.
func (b *BockCounter) Count() int {
	return b.count
}

// Consume spends one bock round if any remain and reports whether the current
// round is a bock round. Call exactly once per finalization, before scoring.
func (b *BockCounter) Consume() bool {
	if b.count == 0 {
		return false
	}
	b.count--
	return true
}

// Trigger grants a fresh batch of bock rounds. Called when a finalized round
// recorded a Herz-Rundlauf; composes with Consume in the same round.
func (b *BockCounter) Trigger() {
	b.count += BockRoundsPerTrigger
}
