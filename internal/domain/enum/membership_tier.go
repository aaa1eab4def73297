package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MembershipTier is a customer's loyalty tier
type MembershipTier string

const (
	MembershipBronze   MembershipTier = "bronze"
	MembershipSilver   MembershipTier = "silver"
	MembershipGold     MembershipTier = "gold"
	MembershipPlatinum MembershipTier = "platinum"
)

func (m MembershipTier) String() string {
	return string(m)
}

// IsValid reports whether the value is one of the known constants
func (m MembershipTier) IsValid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold, MembershipPlatinum:
		return true
	}
	return false
}

func (m MembershipTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *MembershipTier) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = MembershipTier(str)
	return nil
}

func (m MembershipTier) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *MembershipTier) Scan(value interface{}) error {
	if value == nil {
		*m = MembershipBronze
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = MembershipTier(v)
	case []byte:
		*m = MembershipTier(string(v))
	}
	return nil
}
