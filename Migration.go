package dbmigrate

import (
	"errors"
	"sort"
	"strings"
)

// MigrationArtifact is a classical, apply-once migration.  Identifier is the
// sortable token before the first underscore of the file name and Name is the
// full file name without extension.  Rollback is empty when the body carries
// no rollback annotation.
type MigrationArtifact struct {
	Identifier string
	Name       string
	Path       string
	Body       string
	Rollback   string
}

// Checksum returns the Fingerprint of the migration body.
func (m MigrationArtifact) Checksum() Fingerprint {
	return ComputeFingerprint(m.Body)
}

// HasRollback reports whether a rollback statement was declared.
func (m MigrationArtifact) HasRollback() bool {
	return m.Rollback != ""
}

// ParseMigration parses a raw artifact named "<identifier>_<description>" or
// just "<identifier>".
func ParseMigration(raw RawArtifact) (MigrationArtifact, error) {
	identifier := raw.Name
	if i := strings.Index(raw.Name, "_"); i >= 0 {
		identifier = raw.Name[:i]
	}

	if strings.TrimSpace(identifier) == "" {
		return MigrationArtifact{}, newError(ErrInvalidArtifact, raw.Path, "file name has no identifier")
	}

	return MigrationArtifact{
		Identifier: identifier,
		Name:       raw.Name,
		Path:       raw.Path,
		Body:       raw.Text,
		Rollback:   rollbackStatement(raw.Text),
	}, nil
}

// ParseMigrations parses every raw artifact and returns the migrations sorted
// by identifier.  All parse and duplicate identifier errors are reported
// together.
func ParseMigrations(raws []RawArtifact) ([]MigrationArtifact, error) {
	var errs []error
	migrations := make([]MigrationArtifact, 0, len(raws))
	seen := make(map[string]MigrationArtifact, len(raws))

	for _, raw := range raws {
		migration, err := ParseMigration(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if other, exists := seen[migration.Identifier]; exists {
			errs = append(errs, newError(ErrDuplicateIdentifier, migration.Identifier, "'%v' and '%v'", other.Name, migration.Name))
			continue
		}

		seen[migration.Identifier] = migration
		migrations = append(migrations, migration)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	SortMigrations(migrations)
	return migrations, nil
}

// SortMigrations sorts migrations into execution order.
func SortMigrations(migrations []MigrationArtifact) {
	sort.SliceStable(migrations, func(i, j int) bool {
		return CompareIdentifiers(migrations[i].Identifier, migrations[j].Identifier) < 0
	})
}

// CompareIdentifiers orders two migration identifiers naturally.  Both are
// split into runs of digits and runs of other characters and compared run by
// run: digit runs by numeric value, other runs bytewise, and a digit run sorts
// before any other run.  Identifiers whose runs all compare equal, such as
// "007" and "7", fall back to bytewise order so distinct identifiers never
// compare equal.
func CompareIdentifiers(a string, b string) int {
	as, bs := identifierRuns(a), identifierRuns(b)

	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareRuns(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}

	return strings.Compare(a, b)
}

// identifierRuns splits s into maximal runs of digits and of non-digits.
func identifierRuns(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[start]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}

	return runs
}

func compareRuns(a string, b string) int {
	aDigits, bDigits := isDigit(a[0]), isDigit(b[0])

	switch {
	case aDigits && !bDigits:
		return -1
	case !aDigits && bDigits:
		return 1
	case !aDigits:
		return strings.Compare(a, b)
	}

	a, b = trimLeadingZeros(a), trimLeadingZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}

	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func trimLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}

	return trimmed
}
