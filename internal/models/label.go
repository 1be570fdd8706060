package models

import "time"

// Label is the shape shared by the name-keyed lookup tables
// (country_labels, intake_labels, service_areas). Names are unique per
// table.
type Label struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// SystemSetting is a single-row-per-key JSON blob. The global IP allowlist
// lives under SettingIPAllowlist.
type SystemSetting struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

const SettingIPAllowlist = "ip_allowlist"
