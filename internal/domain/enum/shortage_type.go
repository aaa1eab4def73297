package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ShortageType classifies the outcome of a till reconciliation
type ShortageType string

const (
	ShortageExact   ShortageType = "exact"
	ShortageCash    ShortageType = "shortage"
	ShortageExcess  ShortageType = "excess"
	ShortageVoucher ShortageType = "voucher_shortage"
	ShortageOther   ShortageType = "other_shortage"
)

func (s ShortageType) String() string {
	return string(s)
}

// IsValid reports whether the value is one of the known constants
func (s ShortageType) IsValid() bool {
	switch s {
	case ShortageExact, ShortageCash, ShortageExcess, ShortageVoucher, ShortageOther:
		return true
	}
	return false
}

func (s ShortageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *ShortageType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ShortageType(str)
	return nil
}

func (s ShortageType) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ShortageType) Scan(value interface{}) error {
	if value == nil {
		*s = ShortageExact
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ShortageType(v)
	case []byte:
		*s = ShortageType(string(v))
	}
	return nil
}
