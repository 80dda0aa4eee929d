package models

// ScheduleEntry is a time-of-day trigger bound to a command template.
// Day is a lowercase weekday token ("monday".."sunday"); empty means
// every day.
type ScheduleEntry struct {
	ID        int64  `json:"id"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Day       string `json:"day,omitempty"`
	CommandID int64  `json:"command_id"`
	CmdType   string `json:"cmd_type"`
}
