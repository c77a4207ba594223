package models

import "time"

// HolidayKind classifies a holiday entry.
type HolidayKind string

const (
	HolidayKindPublic   HolidayKind = "public"
	HolidayKindCompany  HolidayKind = "company"
	HolidayKindOptional HolidayKind = "optional"
)

// Valid returns true when the kind is a supported value.
func (k HolidayKind) Valid() bool {
	switch k {
	case HolidayKindPublic, HolidayKindCompany, HolidayKindOptional:
		return true
	default:
		return false
	}
}

// Holiday represents a dated holiday entry. Entries are immutable once
// created except for deletion.
type Holiday struct {
	ID        string      `db:"id" json:"id"`
	Date      time.Time   `db:"date" json:"date"`
	Name      string      `db:"name" json:"name"`
	Kind      HolidayKind `db:"kind" json:"kind"`
	CreatedBy string      `db:"created_by" json:"created_by"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// WorkingDaySet holds the weekday indices (0=Sunday..6=Saturday) considered
// workable absent a holiday override.
type WorkingDaySet []int

// DefaultWorkingDays returns Monday through Friday.
func DefaultWorkingDays() WorkingDaySet {
	return WorkingDaySet{1, 2, 3, 4, 5}
}

// Contains reports whether the weekday index is part of the set.
func (s WorkingDaySet) Contains(weekday int) bool {
	for _, d := range s {
		if d == weekday {
			return true
		}
	}
	return false
}

// Toggle returns a copy of the set with the weekday flipped. An empty result
// is permitted: an organization with zero working days is not prevented.
func (s WorkingDaySet) Toggle(weekday int) WorkingDaySet {
	next := make(WorkingDaySet, 0, len(s)+1)
	found := false
	for _, d := range s {
		if d == weekday {
			found = true
			continue
		}
		next = append(next, d)
	}
	if !found {
		inserted := false
		for i, d := range next {
			if weekday < d {
				next = append(next[:i], append(WorkingDaySet{weekday}, next[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			next = append(next, weekday)
		}
	}
	return next
}

// HolidayFilter narrows down holiday listings.
type HolidayFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Kind     *HolidayKind
}
