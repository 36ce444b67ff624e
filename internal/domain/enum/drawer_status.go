package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DrawerStatus is the state of a cash drawer session
type DrawerStatus string

const (
	DrawerStatusOpen   DrawerStatus = "open"
	DrawerStatusClosed DrawerStatus = "closed"
)

func (s DrawerStatus) String() string {
	return string(s)
}

func (s DrawerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *DrawerStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = DrawerStatus(str)
	return nil
}

func (s DrawerStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *DrawerStatus) Scan(value interface{}) error {
	if value == nil {
		*s = DrawerStatusClosed
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = DrawerStatus(v)
	case []byte:
		*s = DrawerStatus(string(v))
	}
	return nil
}
