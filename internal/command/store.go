// Package command owns the commands table: templated, placeholder-based
// invocations of reconnaissance tools.
package command

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bl4ckarch/assetguard/internal/apperr"
	"github.com/bl4ckarch/assetguard/internal/audit"
	"github.com/bl4ckarch/assetguard/internal/models"
)

// PlaceholderDomainFile and PlaceholderOutput are the only substitution
// points a template may reference. Anything else is rejected at creation
// time, not at execution time.
const (
	PlaceholderDomainFile = "domain_file"
	PlaceholderOutput     = "output"
)

var knownPlaceholders = map[string]bool{
	PlaceholderDomainFile: true,
	PlaceholderOutput:     true,
}

// UnresolvedPlaceholderError reports a template placeholder with no value in
// the substitution map handed to Resolve.
type UnresolvedPlaceholderError struct {
	Placeholder string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("no substitution for placeholder $%s", e.Placeholder)
}

// Store provides CRUD and placeholder resolution over command templates.
type Store struct {
	db    *sql.DB
	audit *audit.Log
}

// NewStore returns a Store backed by db, recording mutations to auditLog.
func NewStore(db *sql.DB, auditLog *audit.Log) *Store {
	return &Store{db: db, audit: auditLog}
}

// validateTemplate tokenizes template and checks that every placeholder
// token references a known placeholder.
func validateTemplate(template string) error {
	tokens := strings.Fields(template)
	if len(tokens) == 0 {
		return &apperr.ValidationError{Field: "template", Reason: "must not be empty"}
	}
	for _, tok := range tokens {
		name, _, ok := splitPlaceholder(tok)
		if !ok {
			continue
		}
		if !knownPlaceholders[name] {
			return &apperr.ValidationError{
				Field:  "template",
				Reason: fmt.Sprintf("unknown placeholder $%s", name),
			}
		}
	}
	return nil
}

// splitPlaceholder splits a token of the form "$name[suffix]" into the
// placeholder name and a literal suffix. The suffix form exists because
// tools like subfinder take "-o $output.txt". ok is false for tokens that
// are not placeholders.
func splitPlaceholder(tok string) (name, suffix string, ok bool) {
	if !strings.HasPrefix(tok, "$") {
		return "", "", false
	}
	rest := tok[1:]
	i := 0
	for i < len(rest) {
		c := rest[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return "", "", false
	}
	return rest[:i], rest[i:], true
}

// Create validates and inserts a new template for the named tool.
func (s *Store) Create(ctx context.Context, tool, template string, expectsFileInput bool, cmdType string) (*models.CommandTemplate, error) {
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tools WHERE name = ?`, tool,
	).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &apperr.NotFoundError{Entity: "tool", Key: tool}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO commands (tool, command, file_command, cmd_type) VALUES (?, ?, ?, ?)`,
		tool, template, expectsFileInput, cmdType,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, "command_added", fmt.Sprintf("command `%s` added for %s", template, tool))

	return &models.CommandTemplate{
		ID:               id,
		Tool:             tool,
		Template:         template,
		ExpectsFileInput: expectsFileInput,
		CmdType:          cmdType,
	}, nil
}

// Update replaces the template text of an existing command.
func (s *Store) Update(ctx context.Context, id int64, template string) error {
	if err := validateTemplate(template); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE commands SET command = ? WHERE id = ?`, template, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperr.NotFoundError{Entity: "command", Key: fmt.Sprint(id)}
	}

	s.audit.Append(ctx, "update_command", fmt.Sprintf("command %d updated to `%s`", id, template))
	return nil
}

// Delete removes a command template by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	cmd, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM commands WHERE id = ?`, id); err != nil {
		return err
	}

	s.audit.Append(ctx, "delete_command",
		fmt.Sprintf("command `%s` deleted for %s", cmd.Template, cmd.Tool))
	return nil
}

// Get returns one command template by id.
func (s *Store) Get(ctx context.Context, id int64) (*models.CommandTemplate, error) {
	c := &models.CommandTemplate{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tool, command, file_command, cmd_type FROM commands WHERE id = ?`, id,
	).Scan(&c.ID, &c.Tool, &c.Template, &c.ExpectsFileInput, &c.CmdType)
	if err == sql.ErrNoRows {
		return nil, &apperr.NotFoundError{Entity: "command", Key: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all command templates ordered by id.
func (s *Store) List(ctx context.Context) ([]models.CommandTemplate, error) {
	return s.list(ctx, `SELECT id, tool, command, file_command, cmd_type FROM commands ORDER BY id`)
}

// ListByType returns the templates of one cmd_type, ordered by id. Used to
// constrain which commands a schedule entry may reference.
func (s *Store) ListByType(ctx context.Context, cmdType string) ([]models.CommandTemplate, error) {
	return s.list(ctx,
		`SELECT id, tool, command, file_command, cmd_type FROM commands WHERE cmd_type = ? ORDER BY id`,
		cmdType)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]models.CommandTemplate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commands []models.CommandTemplate
	for rows.Next() {
		var c models.CommandTemplate
		if err := rows.Scan(&c.ID, &c.Tool, &c.Template, &c.ExpectsFileInput, &c.CmdType); err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

// Resolve tokenizes the template of the given command into argv tokens and
// substitutes placeholder values. Each substitution value becomes (part of)
// a single argv element and is never re-parsed, so values containing spaces
// or shell metacharacters cannot alter the command's structure.
func (s *Store) Resolve(ctx context.Context, id int64, subs map[string]string) ([]string, error) {
	cmd, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ResolveTemplate(cmd.Template, subs)
}

// ResolveTemplate performs the substitution of Resolve on a raw template
// string.
func ResolveTemplate(template string, subs map[string]string) ([]string, error) {
	tokens := strings.Fields(template)
	argv := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		name, suffix, ok := splitPlaceholder(tok)
		if !ok {
			argv = append(argv, tok)
			continue
		}
		value, present := subs[name]
		if !present {
			return nil, &UnresolvedPlaceholderError{Placeholder: name}
		}
		argv = append(argv, value+suffix)
	}
	return argv, nil
}
