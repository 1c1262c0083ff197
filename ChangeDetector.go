package dbmigrate

// ChangeStatus is the outcome of comparing a script with its latest deployment.
type ChangeStatus int

// The possible ChangeStatus values.
const (
	ChangeUnchanged ChangeStatus = iota
	ChangeNew
	ChangeModified
)

func (s ChangeStatus) String() string {
	switch s {
	case ChangeNew:
		return "new"
	case ChangeModified:
		return "modified"
	default:
		return "unchanged"
	}
}

// NeedsDeployment reports whether a script with this status must be executed.
func (s ChangeStatus) NeedsDeployment() bool {
	return s != ChangeUnchanged
}

// DetectChange compares the fingerprint of script with latest, the most recent
// deployment recorded for it, or nil when it was never deployed.  The
// fingerprint is the only input: file metadata never matters.
func DetectChange(script ScriptArtifact, latest *ScriptRecord) ChangeStatus {
	if latest == nil {
		return ChangeNew
	}

	if latest.Fingerprint != script.Fingerprint() {
		return ChangeModified
	}

	return ChangeUnchanged
}
