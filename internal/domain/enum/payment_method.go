package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents a tender type accepted at checkout
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodMobile  PaymentMethod = "mobile"
	PaymentMethodVoucher PaymentMethod = "voucher"
	PaymentMethodOther   PaymentMethod = "other"
)

func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is one of the known constants
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodVoucher, PaymentMethodOther:
		return true
	}
	return false
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*p = PaymentMethod(str)
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return string(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*p = PaymentMethod(v)
	case []byte:
		*p = PaymentMethod(string(v))
	}
	return nil
}
