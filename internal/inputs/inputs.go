// Package inputs prepares the on-disk inputs a tool run consumes, currently
// the domain-list file substituted for $domain_file.
package inputs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DomainSource lists the domains currently in scope.
type DomainSource interface {
	EnabledDomains(ctx context.Context) ([]string, error)
}

// Preparer writes per-trigger input files into Dir.
type Preparer struct {
	Source DomainSource
	Dir    string
}

// NewPreparer returns a Preparer writing into dir.
func NewPreparer(source DomainSource, dir string) *Preparer {
	return &Preparer{Source: source, Dir: dir}
}

// DomainFile writes the enabled target domains, one per line, to a fresh
// file and returns its path. The file is regenerated for every trigger so a
// run always sees the registry state at trigger time.
func (p *Preparer) DomainFile(ctx context.Context) (string, error) {
	domains, err := p.Source.EnabledDomains(ctx)
	if err != nil {
		return "", fmt.Errorf("list enabled domains: %w", err)
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}

	path := filepath.Join(p.Dir, fmt.Sprintf("domains-%s.txt", time.Now().Format("20060102-150405")))
	var b strings.Builder
	for _, d := range domains {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write domain file: %w", err)
	}
	return path, nil
}
