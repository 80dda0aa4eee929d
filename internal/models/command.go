package models

// CommandTemplate is a parameterized invocation pattern for a tool.
// Template placeholders ($domain_file, $output) are substituted at
// trigger time.
type CommandTemplate struct {
	ID               int64  `json:"id"`
	Tool             string `json:"tool"`
	Template         string `json:"template"`
	ExpectsFileInput bool   `json:"expects_file_input"`
	CmdType          string `json:"cmd_type"` // e.g. subdomain_enum
}
