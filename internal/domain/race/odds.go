package race

import (
	"encoding/json"
	"errors"
	"math/rand"
)

var (
	ErrNonPositiveOdds = errors.New("odds must be positive")
	ErrNilOddsPolicy   = errors.New("odds policy is required")
)

// Odds is a strictly positive payout multiplier.
type Odds struct {
	value int
}

func NewOdds(value int) (Odds, error) {
	if value <= 0 {
		return Odds{}, ErrNonPositiveOdds
	}
	return Odds{value: value}, nil
}

func (o Odds) Value() int {
	return o.value
}

func (o Odds) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.value)
}

func (o *Odds) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewOdds(v)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// OddsPolicy yields the odds offered for a driver at query time.
type OddsPolicy interface {
	NextOdds() Odds
}

var randomOddsChoices = [...]int{2, 3, 4}

// RandomOddsPolicy draws uniformly from {2, 3, 4}. It is safe for concurrent use.
type RandomOddsPolicy struct{}

func NewRandomOddsPolicy() RandomOddsPolicy {
	return RandomOddsPolicy{}
}

func (RandomOddsPolicy) NextOdds() Odds {
	return Odds{value: randomOddsChoices[rand.Intn(len(randomOddsChoices))]}
}
