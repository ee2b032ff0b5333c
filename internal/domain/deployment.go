package domain

import "time"

// Deployment is the handle of a published contract instance
type Deployment struct {
	Artifact    string    `json:"artifact"`
	Label       string    `json:"label,omitempty"`
	Address     string    `json:"address"`
	TxHash      string    `json:"txHash,omitempty"`
	BlockNumber uint64    `json:"blockNumber,omitempty"`
	GasUsed     uint64    `json:"gasUsed,omitempty"`
	ChainID     uint64    `json:"chainId,omitempty"`
	Deployer    string    `json:"deployer,omitempty"`
	Migration   int       `json:"migration,omitempty"`
	DeployedAt  time.Time `json:"deployedAt"`
}

// StepStatus is the outcome of a single step
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
)

// DeployResult pairs a step with its outcome. Deployment is set on
// success, Err on failure.
type DeployResult struct {
	Index      int
	Step       DeploymentStep
	Status     StepStatus
	Deployment *Deployment
	Err        error
}

// Succeeded reports whether the step published its artifact
func (r *DeployResult) Succeeded() bool {
	return r.Status == StepSucceeded
}
