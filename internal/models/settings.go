package models

import "time"

// OrgSettings is the single organization-wide configuration row: display
// settings plus the working-day set consulted by the calendar policy.
type OrgSettings struct {
	SiteName    string        `db:"site_name" json:"site_name"`
	Tagline     string        `db:"tagline" json:"tagline"`
	LogoURL     string        `db:"logo_url" json:"logo_url"`
	WorkingDays WorkingDaySet `db:"-" json:"working_days"`
	UpdatedBy   *string       `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// DefaultOrgSettings returns the settings used before an admin saves any.
func DefaultOrgSettings() OrgSettings {
	return OrgSettings{
		SiteName:    "HRMS Dashboard",
		Tagline:     "People first",
		WorkingDays: DefaultWorkingDays(),
	}
}
