package domain

import "time"

// PricePair identifies the two sides of a price lookup.
type PricePair struct {
	InputToken  string `json:"inputToken"`
	OutputToken string `json:"outputToken"`
}

// Key returns the composite key used to detect duplicate pairs.
func (p PricePair) Key() string {
	return p.InputToken + ":" + p.OutputToken
}

// Price is the price of one unit of InputToken expressed in OutputToken.
type Price struct {
	InputToken  string    `json:"inputToken"`
	OutputToken string    `json:"outputToken"`
	Price       string    `json:"price"`
	Timestamp   time.Time `json:"timestamp"`
}
