package models

// Tool is an external reconnaissance binary known to the panel.
// The set of tools is seeded at database creation; only enabled and
// binary_path are admin-editable.
type Tool struct {
	Name       string `json:"name"`
	BinaryPath string `json:"binary_path"`
	Enabled    bool   `json:"enabled"`
}
