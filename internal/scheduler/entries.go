package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/bl4ckarch/assetguard/internal/apperr"
	"github.com/bl4ckarch/assetguard/internal/models"
)

var weekdays = map[string]bool{
	"sunday":    true,
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
}

func validateEntry(hour, minute int, day string) error {
	if hour < 0 || hour > 23 {
		return &apperr.ValidationError{Field: "hour", Reason: "must be between 0 and 23"}
	}
	if minute < 0 || minute > 59 {
		return &apperr.ValidationError{Field: "minute", Reason: "must be between 0 and 59"}
	}
	if day != "" && !weekdays[day] {
		return &apperr.ValidationError{Field: "day", Reason: "must be a lowercase weekday name, or empty for every day"}
	}
	return nil
}

// CreateEntry validates and inserts a schedule entry. day is a lowercase
// weekday token or empty for every day. The entry's cmd_type is taken from
// the referenced command, which keeps the two always equal.
func (s *Scheduler) CreateEntry(ctx context.Context, hour, minute int, day string, commandID int64) (*models.ScheduleEntry, error) {
	day = strings.ToLower(strings.TrimSpace(day))
	if err := validateEntry(hour, minute, day); err != nil {
		return nil, err
	}

	cmd, err := s.commands.Get(ctx, commandID)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule (hour, minute, day, cmd_id, cmd_type) VALUES (?, ?, ?, ?, ?)`,
		hour, minute, day, commandID, cmd.CmdType,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, "schedule_added",
		fmt.Sprintf("schedule %d: command %d at %02d:%02d %s", id, commandID, hour, minute, dayLabel(day)))

	return &models.ScheduleEntry{
		ID:        id,
		Hour:      hour,
		Minute:    minute,
		Day:       day,
		CommandID: commandID,
		CmdType:   cmd.CmdType,
	}, nil
}

// UpdateEntry rewrites an existing schedule entry, re-deriving cmd_type from
// the (possibly new) referenced command.
func (s *Scheduler) UpdateEntry(ctx context.Context, id int64, hour, minute int, day string, commandID int64) error {
	day = strings.ToLower(strings.TrimSpace(day))
	if err := validateEntry(hour, minute, day); err != nil {
		return err
	}

	cmd, err := s.commands.Get(ctx, commandID)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE schedule SET hour = ?, minute = ?, day = ?, cmd_id = ?, cmd_type = ? WHERE id = ?`,
		hour, minute, day, commandID, cmd.CmdType, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperr.NotFoundError{Entity: "schedule", Key: fmt.Sprint(id)}
	}

	s.audit.Append(ctx, "update_schedule",
		fmt.Sprintf("schedule %d: command %d at %02d:%02d %s", id, commandID, hour, minute, dayLabel(day)))
	return nil
}

// DeleteEntry removes a schedule entry by id. A pending trigger is
// pre-empted only if the delete lands strictly before its tick fires.
func (s *Scheduler) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedule WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperr.NotFoundError{Entity: "schedule", Key: fmt.Sprint(id)}
	}

	s.audit.Append(ctx, "delete_schedule", fmt.Sprintf("schedule %d deleted", id))
	return nil
}

// ListEntries returns all schedule entries ordered by id.
func (s *Scheduler) ListEntries(ctx context.Context) ([]models.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hour, minute, COALESCE(day, ''), cmd_id, cmd_type FROM schedule ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.Hour, &e.Minute, &e.Day, &e.CommandID, &e.CmdType); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func dayLabel(day string) string {
	if day == "" {
		return "every day"
	}
	return "on " + day + "s"
}
