package dbmigrate

import (
	"testing"
	"time"

	"github.com/ljpx/test"
)

func TestDetectChangeReportsNewWithoutRecord(t *testing.T) {
	// Act.
	status := DetectChange(script("a"), nil)

	// Assert.
	test.That(t, status).IsEqualTo(ChangeNew)
	test.That(t, status.NeedsDeployment()).IsEqualTo(true)
	test.That(t, status.String()).IsEqualTo("new")
}

func TestDetectChangeReportsUnchangedForSameFingerprint(t *testing.T) {
	// Arrange.
	s := script("a")
	record := &ScriptRecord{Name: "a", Fingerprint: s.Fingerprint(), DeployedAt: time.Now()}

	// Act.
	status := DetectChange(s, record)

	// Assert.
	test.That(t, status).IsEqualTo(ChangeUnchanged)
	test.That(t, status.NeedsDeployment()).IsEqualTo(false)
}

func TestDetectChangeReportsModifiedForDifferentFingerprint(t *testing.T) {
	// Arrange.
	s := script("a")
	record := &ScriptRecord{Name: "a", Fingerprint: ComputeFingerprint("SELECT 2;")}

	// Act.
	status := DetectChange(s, record)

	// Assert.
	test.That(t, status).IsEqualTo(ChangeModified)
	test.That(t, status.String()).IsEqualTo("modified")
}
