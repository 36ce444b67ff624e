package enum

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LoyaltyTier scales the points a customer earns per sale
type LoyaltyTier string

const (
	LoyaltyTierNone   LoyaltyTier = "none"
	LoyaltyTierBronze LoyaltyTier = "bronze"
	LoyaltyTierSilver LoyaltyTier = "silver"
	LoyaltyTierGold   LoyaltyTier = "gold"
)

var tierMultipliers = map[LoyaltyTier]decimal.Decimal{
	LoyaltyTierNone:   decimal.NewFromInt(1),
	LoyaltyTierBronze: decimal.RequireFromString("1.2"),
	LoyaltyTierSilver: decimal.RequireFromString("1.5"),
	LoyaltyTierGold:   decimal.NewFromInt(2),
}

func (t LoyaltyTier) String() string {
	if t == "" {
		return string(LoyaltyTierNone)
	}
	return string(t)
}

func (t LoyaltyTier) IsValid() bool {
	_, ok := tierMultipliers[t]
	return ok
}

// Multiplier returns the points multiplier for the tier. Unknown tiers earn 1x.
func (t LoyaltyTier) Multiplier() decimal.Decimal {
	if m, ok := tierMultipliers[t]; ok {
		return m
	}
	return tierMultipliers[LoyaltyTierNone]
}

func (t LoyaltyTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LoyaltyTier) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = LoyaltyTier(str)
	return nil
}

func (t LoyaltyTier) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *LoyaltyTier) Scan(value interface{}) error {
	if value == nil {
		*t = LoyaltyTierNone
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = LoyaltyTier(v)
	case []byte:
		*t = LoyaltyTier(string(v))
	}
	return nil
}
