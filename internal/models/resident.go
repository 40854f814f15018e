package models

// Resident is one member of the duty rotation.
type Resident struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	FlatNumber string  `json:"flat_number" yaml:"flat_number"`
	Contact    Contact `json:"contact" yaml:"contact"`
	Notes      string  `json:"notes" yaml:"notes"`
}

// Recipient returns the dispatch view of the resident.
func (r Resident) Recipient() Recipient {
	return Recipient{Name: r.Name, Contact: r.Contact}
}

// ResidentCreate is the input for adding a resident.
type ResidentCreate struct {
	Name       string  `json:"name" binding:"required"`
	FlatNumber string  `json:"flat_number" binding:"required"`
	Contact    Contact `json:"contact"`
	Notes      string  `json:"notes"`
}

// ResidentUpdate carries optional replacements; empty fields keep the current value.
type ResidentUpdate struct {
	Name       string   `json:"name,omitempty"`
	FlatNumber string   `json:"flat_number,omitempty"`
	Contact    *Contact `json:"contact,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Apply returns r with the non-empty fields of u applied.
func (u ResidentUpdate) Apply(r Resident) Resident {
	if u.Name != "" {
		r.Name = u.Name
	}
	if u.FlatNumber != "" {
		r.FlatNumber = u.FlatNumber
	}
	if u.Contact != nil {
		r.Contact = *u.Contact
	}
	if u.Notes != "" {
		r.Notes = u.Notes
	}
	return r
}

// NoneName is the sentinel name reported when a rotation slot is empty.
const NoneName = "N/A"

// DutySlot is a rotation position that may be unoccupied.
type DutySlot struct {
	Resident *Resident `json:"-"`
	Name     string    `json:"name"`
}

// SlotOf wraps an optional resident into a DutySlot.
func SlotOf(r *Resident) DutySlot {
	if r == nil {
		return DutySlot{Name: NoneName}
	}
	return DutySlot{Resident: r, Name: r.Name}
}

// None reports whether the slot is unoccupied.
func (s DutySlot) None() bool { return s.Resident == nil }
