package dbmigrate

import (
	"errors"
	"testing"

	"github.com/ljpx/test"
)

func TestErrorMatchesKindAndCause(t *testing.T) {
	// Arrange.
	err := wrapError(ErrExecutionFailure, "stg__person", errInjected)

	// Act.
	artifact, ok := FailedArtifact(err)

	// Assert.
	test.That(t, errors.Is(err, ErrExecutionFailure)).IsEqualTo(true)
	test.That(t, errors.Is(err, errInjected)).IsEqualTo(true)
	test.That(t, ok).IsEqualTo(true)
	test.That(t, artifact).IsEqualTo("stg__person")
	test.That(t, err.Error()).IsEqualTo("execution failure in 'stg__person': injected failure")
}

func TestAttributeNamesUnattributedErrors(t *testing.T) {
	// Arrange.
	stored := storeError("insert script record", errInjected)

	// Act.
	named := attribute(stored, "dim_person")
	plain := attribute(errInjected, "dim_person")

	// Assert.
	test.That(t, errors.Is(named, ErrHistoryStoreFailure)).IsEqualTo(true)
	test.That(t, named.Error()).IsEqualTo("history store failure in 'dim_person': insert script record: injected failure")
	test.That(t, errors.Is(plain, ErrExecutionFailure)).IsEqualTo(true)

	artifact, _ := FailedArtifact(plain)
	test.That(t, artifact).IsEqualTo("dim_person")
}

func TestAttributeKeepsExistingArtifact(t *testing.T) {
	// Arrange.
	err := newError(ErrNotApplied, "202206061115", "nothing to roll back")

	// Act.
	kept := attribute(err, "other")

	// Assert.
	artifact, _ := FailedArtifact(kept)
	test.That(t, artifact).IsEqualTo("202206061115")
}

func TestFailedArtifactWithoutArtifact(t *testing.T) {
	// Act.
	_, ok := FailedArtifact(errInjected)

	// Assert.
	test.That(t, ok).IsEqualTo(false)
}
