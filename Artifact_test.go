package dbmigrate

import (
	"errors"
	"testing"

	"github.com/ljpx/test"
)

func TestParseMigrationSplitsIdentifierAndExtractsRollback(t *testing.T) {
	// Arrange.
	raw := RawArtifact{
		Name: "202206061113_create_person",
		Path: "migrations/202206061113_create_person.sql",
		Text: "CREATE TABLE person (id INTEGER);\n-- rollback: DROP TABLE person;\n",
	}

	// Act.
	migration, err := ParseMigration(raw)

	// Assert.
	test.That(t, err).IsNil()
	test.That(t, migration.Identifier).IsEqualTo("202206061113")
	test.That(t, migration.Name).IsEqualTo("202206061113_create_person")
	test.That(t, migration.Rollback).IsEqualTo("DROP TABLE person;")
	test.That(t, migration.HasRollback()).IsEqualTo(true)
}

func TestParseMigrationJoinsSeveralRollbackLines(t *testing.T) {
	// Arrange.
	raw := RawArtifact{
		Name: "3_two_tables",
		Text: "CREATE TABLE a (id INTEGER);\n-- rollback: DROP TABLE a;\nCREATE TABLE b (id INTEGER);\n--rollback: DROP TABLE b;\n",
	}

	// Act.
	migration, err := ParseMigration(raw)

	// Assert.
	test.That(t, err).IsNil()
	test.That(t, migration.Rollback).IsEqualTo("DROP TABLE a;\nDROP TABLE b;")
}

func TestParseMigrationWithoutDescription(t *testing.T) {
	// Act.
	migration, err := ParseMigration(RawArtifact{Name: "42", Text: "SELECT 1;"})

	// Assert.
	test.That(t, err).IsNil()
	test.That(t, migration.Identifier).IsEqualTo("42")
	test.That(t, migration.HasRollback()).IsEqualTo(false)
}

func TestParseMigrationRejectsMissingIdentifier(t *testing.T) {
	// Act.
	_, err := ParseMigration(RawArtifact{Name: "_no_identifier", Path: "_no_identifier.sql"})

	// Assert.
	test.That(t, errors.Is(err, ErrInvalidArtifact)).IsEqualTo(true)
}

func TestParseMigrationsSortsByIdentifierRegardlessOfListingOrder(t *testing.T) {
	// Arrange.
	raws := []RawArtifact{
		{Name: "202206061115_add_email", Text: "SELECT 2;"},
		{Name: "202206061113_create_person", Text: "SELECT 1;"},
		{Name: "9_early", Text: "SELECT 0;"},
	}

	// Act.
	migrations, err := ParseMigrations(raws)

	// Assert.
	test.That(t, err).IsNil()
	test.That(t, len(migrations)).IsEqualTo(3)
	test.That(t, migrations[0].Identifier).IsEqualTo("9")
	test.That(t, migrations[1].Identifier).IsEqualTo("202206061113")
	test.That(t, migrations[2].Identifier).IsEqualTo("202206061115")
}

func TestParseMigrationsRejectsDuplicateIdentifiers(t *testing.T) {
	// Arrange.
	raws := []RawArtifact{
		{Name: "1_a", Text: "SELECT 1;"},
		{Name: "1_b", Text: "SELECT 2;"},
	}

	// Act.
	_, err := ParseMigrations(raws)

	// Assert.
	test.That(t, errors.Is(err, ErrDuplicateIdentifier)).IsEqualTo(true)
	artifact, _ := FailedArtifact(err)
	test.That(t, artifact).IsEqualTo("1")
}

func TestCompareIdentifiers(t *testing.T) {
	test.That(t, CompareIdentifiers("9", "10")).IsEqualTo(-1)
	test.That(t, CompareIdentifiers("010", "9")).IsEqualTo(1)
	test.That(t, CompareIdentifiers("007", "7")).IsEqualTo(-1)
	test.That(t, CompareIdentifiers("7", "007")).IsEqualTo(1)
	test.That(t, CompareIdentifiers("7", "7")).IsEqualTo(0)
	test.That(t, CompareIdentifiers("202206061113", "202206061115")).IsEqualTo(-1)
	test.That(t, CompareIdentifiers("v9", "v10")).IsEqualTo(-1)
	test.That(t, CompareIdentifiers("10", "1a")).IsEqualTo(1)
	test.That(t, CompareIdentifiers("1a", "9")).IsEqualTo(-1)
	test.That(t, CompareIdentifiers("9", "a")).IsEqualTo(-1)
}

func TestSortMigrationsGivesOneOrderForEveryListingOrder(t *testing.T) {
	// Arrange.
	identifiers := []string{"9", "10", "1a", "01", "1", "a"}

	results := make(map[string]int)
	permute(identifiers, 0, func(listing []string) {
		migrations := make([]MigrationArtifact, len(listing))
		for i, identifier := range listing {
			migrations[i] = MigrationArtifact{Identifier: identifier, Name: identifier}
		}

		// Act.
		SortMigrations(migrations)

		sorted := make([]string, len(migrations))
		for i, migration := range migrations {
			sorted[i] = migration.Identifier
		}
		results[joined(sorted)]++
	})

	// Assert.
	test.That(t, len(results)).IsEqualTo(1)
	test.That(t, results["01,1,1a,9,10,a"]).IsEqualTo(720)
}

// permute calls visit with every ordering of items.
func permute(items []string, k int, visit func([]string)) {
	if k == len(items) {
		visit(items)
		return
	}

	for i := k; i < len(items); i++ {
		items[k], items[i] = items[i], items[k]
		permute(items, k+1, visit)
		items[k], items[i] = items[i], items[k]
	}
}

func TestParseScriptReadsLeadingAnnotations(t *testing.T) {
	// Arrange.
	raw := RawArtifact{
		Name: "dim_person",
		Path: "scripts/dim_person.sql",
		Text: "-- Person dimension.\n--   depends:  stg__person,stg__address\n-- depends: stg__person stg__phone\n-- sources: raw.person, raw.address\n\nCREATE VIEW dim_person AS SELECT 1;\n-- depends: ignored_after_block\n",
	}

	// Act.
	script, err := ParseScript(raw)

	// Assert.
	test.That(t, err).IsNil()
	test.That(t, joined(script.Dependencies)).IsEqualTo("stg__person,stg__address,stg__phone")
	test.That(t, joined(script.Sources)).IsEqualTo("raw.person,raw.address")
}

func TestParseScriptWithoutAnnotations(t *testing.T) {
	// Act.
	script, err := ParseScript(RawArtifact{Name: "stg__person", Text: "CREATE VIEW stg__person AS SELECT 1;"})

	// Assert.
	test.That(t, err).IsNil()
	test.That(t, len(script.Dependencies)).IsEqualTo(0)
}

func TestParseScriptsRejectsDuplicateNames(t *testing.T) {
	// Arrange.
	raws := []RawArtifact{
		{Name: "a", Path: "one/a.sql", Text: "SELECT 1;"},
		{Name: "a", Path: "two/a.sql", Text: "SELECT 2;"},
	}

	// Act.
	_, err := ParseScripts(raws)

	// Assert.
	test.That(t, errors.Is(err, ErrDuplicateName)).IsEqualTo(true)
}
