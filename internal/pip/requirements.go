package pip

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Requirement is a single entry from a pip requirements manifest.
type Requirement struct {
	// Name is the distribution name, without extras or constraints.
	// Empty for option lines such as "-r other.txt" or "--index-url".
	Name string
	// Constraint is the version constraint as written, e.g. "==2.0.1"
	// or ">=1.4,<2".
	Constraint string
	// Raw is the full line as written in the manifest.
	Raw string
	// Editable reports whether the entry was marked with -e/--editable.
	Editable bool
}

// Pinned reports whether the requirement names an exact version.
func (r Requirement) Pinned() bool {
	return strings.HasPrefix(r.Constraint, "==")
}

// ParseFile reads a requirements manifest from disk.
func ParseFile(path string) ([]Requirement, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open requirements manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	reqs, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return reqs, nil
}

// Parse reads requirement entries from r, skipping blank lines and
// comments. Option lines are kept with an empty Name so callers can
// still count and display them.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// pip allows trailing comments separated by whitespace
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		req := Requirement{Raw: line}
		spec := line

		switch {
		case strings.HasPrefix(line, "-e "), strings.HasPrefix(line, "--editable "):
			req.Editable = true
			_, spec, _ = strings.Cut(line, " ")
			spec = strings.TrimSpace(spec)
		case strings.HasPrefix(line, "-"):
			// option line, e.g. "-r base.txt" or "--index-url ..."
			reqs = append(reqs, req)
			continue
		}

		req.Name, req.Constraint = splitNameConstraint(spec)
		reqs = append(reqs, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan requirements: %w", err)
	}

	return reqs, nil
}

// splitNameConstraint separates "flask[async]==2.0; python_version>='3.8'"
// into the distribution name and the version constraint. Extras and
// environment markers are not part of either.
func splitNameConstraint(spec string) (name, constraint string) {
	// strip environment markers first
	if idx := strings.Index(spec, ";"); idx >= 0 {
		spec = strings.TrimSpace(spec[:idx])
	}

	name = spec
	if idx := strings.IndexAny(spec, "[=<>!~ "); idx >= 0 {
		name = spec[:idx]
		rest := spec[idx:]
		// skip over any extras, e.g. "[async]"
		if strings.HasPrefix(rest, "[") {
			if end := strings.Index(rest, "]"); end >= 0 {
				rest = rest[end+1:]
			}
		}
		constraint = strings.TrimSpace(rest)
	}

	// URLs and local paths have no distribution name to report
	if strings.Contains(name, "/") || strings.Contains(name, ":") {
		return "", ""
	}
	return name, constraint
}
