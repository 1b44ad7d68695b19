package domain

import (
	"encoding/json"
	"fmt"
)

// UnitType separates internal support departments from customer groups.
type UnitType string

const (
	UnitTypeSupport  UnitType = "SUPPORT"
	UnitTypeCustomer UnitType = "CUSTOMER"
)

// Valid reports whether t is a known unit type.
func (t UnitType) Valid() bool {
	switch t {
	case UnitTypeSupport, UnitTypeCustomer:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown unit types.
func (t *UnitType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !UnitType(raw).Valid() {
		return fmt.Errorf("unknown unit type %q", raw)
	}
	*t = UnitType(raw)
	return nil
}

// Unit represents a support department or a customer group. Tickets and
// users reference it by ID; nothing cascades when it is removed.
type Unit struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type UnitType `json:"type"`
}

// DefaultUnits is the unit list used when none has been persisted yet.
func DefaultUnits() []Unit {
	return []Unit{
		{ID: "u1", Name: "Technical Support", Type: UnitTypeSupport},
		{ID: "u2", Name: "Sales", Type: UnitTypeSupport},
	}
}

// FindUnit returns the unit with the given id, if any.
func FindUnit(units []Unit, id string) (Unit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}
