package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionStatus is the lifecycle state of a sale
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
	TransactionStatusVoided    TransactionStatus = "voided"
)

func (s TransactionStatus) String() string {
	return string(s)
}

// IsReversed reports whether the sale was voided or refunded.
func (s TransactionStatus) IsReversed() bool {
	return s == TransactionStatusVoided || s == TransactionStatusRefunded
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = TransactionStatus(str)
	return nil
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *TransactionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TransactionStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = TransactionStatus(v)
	case []byte:
		*s = TransactionStatus(string(v))
	}
	return nil
}
