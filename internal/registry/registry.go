// Package registry owns the domains and tools tables: the ground truth for
// what may be acted upon by scheduled tool runs.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/bl4ckarch/assetguard/internal/apperr"
	"github.com/bl4ckarch/assetguard/internal/audit"
	"github.com/bl4ckarch/assetguard/internal/models"
)

var (
	domainPattern     = regexp.MustCompile(`^[a-zA-Z_0-9.]+\.[a-z]{2,}$`)
	programURLPattern = regexp.MustCompile(`^https?://[a-zA-Z_0-9.]+\.[a-z]{2,}/?[a-zA-Z0-9_.\-]*$`)
)

// Registry provides CRUD and validation over targets and tools. Every
// successful mutation appends exactly one audit entry before returning.
type Registry struct {
	db    *sql.DB
	audit *audit.Log
}

// New returns a Registry backed by db, recording mutations to auditLog.
func New(db *sql.DB, auditLog *audit.Log) *Registry {
	return &Registry{db: db, audit: auditLog}
}

// AddTarget validates and inserts a new target domain. A duplicate domain is
// rejected as a conflict before any grammar check runs.
func (r *Registry) AddTarget(ctx context.Context, domain, programURL string, enabled bool) (*models.Target, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM domains WHERE domain = ?`, domain,
	).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, &apperr.ConflictError{Entity: "target", Key: domain}
	}

	if !domainPattern.MatchString(domain) {
		return nil, &apperr.ValidationError{Field: "domain", Reason: "must be a valid domain name"}
	}
	if !programURLPattern.MatchString(programURL) {
		return nil, &apperr.ValidationError{Field: "program_url", Reason: "must be a valid http(s) URL"}
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO domains (domain, program_url, enabled) VALUES (?, ?, ?)`,
		domain, programURL, enabled,
	); err != nil {
		return nil, err
	}

	r.audit.Append(ctx, "domain_added", fmt.Sprintf("%s added", domain))

	return &models.Target{Domain: domain, ProgramURL: programURL, Enabled: enabled}, nil
}

// ToggleTarget flips the enabled flag of a target and returns the new value.
func (r *Registry) ToggleTarget(ctx context.Context, domain string) (bool, error) {
	var enabled bool
	err := r.db.QueryRowContext(ctx,
		`SELECT enabled FROM domains WHERE domain = ?`, domain,
	).Scan(&enabled)
	if err == sql.ErrNoRows {
		return false, &apperr.NotFoundError{Entity: "target", Key: domain}
	}
	if err != nil {
		return false, err
	}

	newState := !enabled
	if _, err := r.db.ExecContext(ctx,
		`UPDATE domains SET enabled = ? WHERE domain = ?`, newState, domain,
	); err != nil {
		return false, err
	}

	verb := "disabled"
	if newState {
		verb = "enabled"
	}
	r.audit.Append(ctx, "update_domain_enable", fmt.Sprintf("%s %s", domain, verb))

	return newState, nil
}

// DeleteTarget removes a target by domain.
func (r *Registry) DeleteTarget(ctx context.Context, domain string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM domains WHERE domain = ?`, domain)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperr.NotFoundError{Entity: "target", Key: domain}
	}

	r.audit.Append(ctx, "delete_domain", fmt.Sprintf("%s deleted", domain))
	return nil
}

// ListTargets returns all targets ordered by domain.
func (r *Registry) ListTargets(ctx context.Context) ([]models.Target, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT domain, program_url, enabled FROM domains ORDER BY domain`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []models.Target
	for rows.Next() {
		var t models.Target
		if err := rows.Scan(&t.Domain, &t.ProgramURL, &t.Enabled); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// EnabledDomains returns the domains of all enabled targets, ordered. Used
// to generate the domain-list file handed to tools.
func (r *Registry) EnabledDomains(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT domain FROM domains WHERE enabled = 1 ORDER BY domain`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

// ListTools returns all known tools ordered by name.
func (r *Registry) ListTools(ctx context.Context) ([]models.Tool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, binary_path, enabled FROM tools ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []models.Tool
	for rows.Next() {
		var t models.Tool
		if err := rows.Scan(&t.Name, &t.BinaryPath, &t.Enabled); err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// GetTool returns one tool by name.
func (r *Registry) GetTool(ctx context.Context, name string) (*models.Tool, error) {
	t := &models.Tool{}
	err := r.db.QueryRowContext(ctx,
		`SELECT name, binary_path, enabled FROM tools WHERE name = ?`, name,
	).Scan(&t.Name, &t.BinaryPath, &t.Enabled)
	if err == sql.ErrNoRows {
		return nil, &apperr.NotFoundError{Entity: "tool", Key: name}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SetToolEnabled enables or disables a tool. The flag is consulted once per
// trigger, so a change has no effect on runs already started.
func (r *Registry) SetToolEnabled(ctx context.Context, name string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tools SET enabled = ? WHERE name = ?`, enabled, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperr.NotFoundError{Entity: "tool", Key: name}
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	r.audit.Append(ctx, "update_tool_enable", fmt.Sprintf("%s %s", name, verb))
	return nil
}

// SetToolBinaryPath updates a tool's executable path. Takes effect on the
// next trigger.
func (r *Registry) SetToolBinaryPath(ctx context.Context, name, binaryPath string) error {
	if binaryPath == "" {
		return &apperr.ValidationError{Field: "binary_path", Reason: "must not be empty"}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE tools SET binary_path = ? WHERE name = ?`, binaryPath, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperr.NotFoundError{Entity: "tool", Key: name}
	}

	r.audit.Append(ctx, "update_tool_binary", fmt.Sprintf("%s binary path set to %s", name, binaryPath))
	return nil
}
