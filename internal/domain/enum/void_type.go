package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// VoidType identifies what a void record refers to
type VoidType string

const (
	VoidTypeProduct         VoidType = "product"
	VoidTypeCart            VoidType = "cart"
	VoidTypeHeldTransaction VoidType = "held_transaction"
	VoidTypeSale            VoidType = "sale"
)

func (t VoidType) String() string {
	return string(t)
}

// IsValid reports whether the value is one of the known constants
func (t VoidType) IsValid() bool {
	switch t {
	case VoidTypeProduct, VoidTypeCart, VoidTypeHeldTransaction, VoidTypeSale:
		return true
	}
	return false
}

func (t VoidType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *VoidType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = VoidType(str)
	return nil
}

func (t VoidType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *VoidType) Scan(value interface{}) error {
	if value == nil {
		*t = VoidTypeProduct
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = VoidType(v)
	case []byte:
		*t = VoidType(string(v))
	}
	return nil
}
