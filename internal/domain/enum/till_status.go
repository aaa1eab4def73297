package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TillStatus represents whether a till is open for trading
type TillStatus string

const (
	TillStatusClosed TillStatus = "closed"
	TillStatusOpen   TillStatus = "open"
)

func (t TillStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is one of the known constants
func (t TillStatus) IsValid() bool {
	switch t {
	case TillStatusClosed, TillStatusOpen:
		return true
	}
	return false
}

func (t TillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = TillStatus(str)
	return nil
}

func (t TillStatus) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *TillStatus) Scan(value interface{}) error {
	if value == nil {
		*t = TillStatusClosed
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = TillStatus(v)
	case []byte:
		*t = TillStatus(string(v))
	}
	return nil
}
