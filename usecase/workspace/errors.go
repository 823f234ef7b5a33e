package workspace

import "fmt"

// Stage identifies one step of the provisioning sequence.
type Stage string

const (
	StageIdentity  Stage = "identity"
	StageNamespace Stage = "namespace"
	StageStorage   Stage = "storage"
	StageSecrets   Stage = "secrets"
	StageArtifacts Stage = "artifacts"
	StageAccess    Stage = "access"
	StageWorkload  Stage = "workload"
)

// StageError reports which provisioning stage failed. The orchestrator
// tears the workspace down before returning one, so a StageError always
// describes a workspace that no longer exists.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("provision stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
