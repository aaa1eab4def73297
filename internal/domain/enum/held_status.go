package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// HeldStatus represents the lifecycle state of a held transaction
type HeldStatus string

const (
	HeldStatusHeld    HeldStatus = "held"
	HeldStatusResumed HeldStatus = "resumed"
	HeldStatusDeleted HeldStatus = "deleted"
)

func (h HeldStatus) String() string {
	return string(h)
}

// IsValid reports whether the value is one of the known constants
func (h HeldStatus) IsValid() bool {
	switch h {
	case HeldStatusHeld, HeldStatusResumed, HeldStatusDeleted:
		return true
	}
	return false
}

func (h HeldStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

func (h *HeldStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*h = HeldStatus(str)
	return nil
}

func (h HeldStatus) Value() (driver.Value, error) {
	return string(h), nil
}

func (h *HeldStatus) Scan(value interface{}) error {
	if value == nil {
		*h = HeldStatusHeld
		return nil
	}
	switch v := value.(type) {
	case string:
		*h = HeldStatus(v)
	case []byte:
		*h = HeldStatus(string(v))
	}
	return nil
}
