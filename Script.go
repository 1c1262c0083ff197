package dbmigrate

import (
	"errors"
	"sort"
)

// ScriptArtifact is a re-appliable database object definition such as a view
// or stored procedure.  Dependencies and Sources come from the leading
// annotation block of the body.
type ScriptArtifact struct {
	Name         string
	Path         string
	Body         string
	Dependencies []string
	Sources      []string
}

// Fingerprint returns the Fingerprint of the script body.
func (s ScriptArtifact) Fingerprint() Fingerprint {
	return ComputeFingerprint(s.Body)
}

// ParseScript parses a raw artifact into a ScriptArtifact.
func ParseScript(raw RawArtifact) (ScriptArtifact, error) {
	if raw.Name == "" {
		return ScriptArtifact{}, newError(ErrInvalidArtifact, raw.Path, "file name is empty")
	}

	return ScriptArtifact{
		Name:         raw.Name,
		Path:         raw.Path,
		Body:         raw.Text,
		Dependencies: leadingNames(raw.Text, DependsAnnotation),
		Sources:      leadingNames(raw.Text, SourcesAnnotation),
	}, nil
}

// ParseScripts parses every raw artifact and returns the scripts sorted by
// name.  Two scripts sharing a name is an error even when they live in
// different directories.
func ParseScripts(raws []RawArtifact) ([]ScriptArtifact, error) {
	var errs []error
	scripts := make([]ScriptArtifact, 0, len(raws))
	seen := make(map[string]ScriptArtifact, len(raws))

	for _, raw := range raws {
		script, err := ParseScript(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if other, exists := seen[script.Name]; exists {
			errs = append(errs, newError(ErrDuplicateName, script.Name, "'%v' and '%v'", other.Path, script.Path))
			continue
		}

		seen[script.Name] = script
		scripts = append(scripts, script)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})

	return scripts, nil
}
