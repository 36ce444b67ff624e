package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemCategory groups inventory items on receipts and reports
type ItemCategory string

const (
	ItemCategoryRepair    ItemCategory = "repair"
	ItemCategoryAccessory ItemCategory = "accessory"
	ItemCategoryDevice    ItemCategory = "device"
	ItemCategoryService   ItemCategory = "service"
)

func (c ItemCategory) String() string {
	return string(c)
}

func (c ItemCategory) IsValid() bool {
	switch c {
	case ItemCategoryRepair, ItemCategoryAccessory, ItemCategoryDevice, ItemCategoryService:
		return true
	}
	return false
}

func (c ItemCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *ItemCategory) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*c = ItemCategory(str)
	return nil
}

func (c ItemCategory) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *ItemCategory) Scan(value interface{}) error {
	if value == nil {
		*c = ItemCategoryAccessory
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = ItemCategory(v)
	case []byte:
		*c = ItemCategory(string(v))
	}
	return nil
}
