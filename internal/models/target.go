package models

// Target is a domain in scope for reconnaissance.
type Target struct {
	Domain     string `json:"domain"`
	ProgramURL string `json:"program_url"`
	Enabled    bool   `json:"enabled"`
}
