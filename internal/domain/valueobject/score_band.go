package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// ScoreBand – immutable value object
// ---------------------------------------------------------------------------

// ScoreBand is the letter band a credit score falls into.
type ScoreBand struct {
	value string
}

var (
	ScoreBandA = ScoreBand{value: "A"}
	ScoreBandB = ScoreBand{value: "B"}
	ScoreBandC = ScoreBand{value: "C"}
	ScoreBandD = ScoreBand{value: "D"}
)

var validScoreBands = map[string]ScoreBand{
	"A": ScoreBandA,
	"B": ScoreBandB,
	"C": ScoreBandC,
	"D": ScoreBandD,
}

// NewScoreBand creates a ScoreBand from a raw string.
func NewScoreBand(s string) (ScoreBand, error) {
	v, ok := validScoreBands[s]
	if !ok {
		return ScoreBand{}, fmt.Errorf("invalid score band: %q", s)
	}
	return v, nil
}

// BandForScore maps a 0-1000 score to its band.
func BandForScore(score int) ScoreBand {
	switch {
	case score >= 900:
		return ScoreBandA
	case score >= 750:
		return ScoreBandB
	case score >= 600:
		return ScoreBandC
	default:
		return ScoreBandD
	}
}

// String returns the string representation of the band.
func (b ScoreBand) String() string { return b.value }

// IsZero returns true if the band has not been initialised.
func (b ScoreBand) IsZero() bool { return b.value == "" }

// Equal returns true when both bands carry the same value.
func (b ScoreBand) Equal(other ScoreBand) bool { return b.value == other.value }
