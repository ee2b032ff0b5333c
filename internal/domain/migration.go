package domain

import (
	"sort"
	"time"
)

// Migration is one declaration file: an explicit, ordered list of steps
type Migration struct {
	Number      int
	Name        string
	Path        string
	Description string
	Steps       []DeploymentStep
}

// MigrationState is the journal state of a migration on one network
type MigrationState string

const (
	MigrationPending   MigrationState = "pending"
	MigrationCompleted MigrationState = "completed"
	MigrationFailed    MigrationState = "failed"
)

// MigrationRecord is the journal entry for a migration that has been run
type MigrationRecord struct {
	Number     int            `json:"number"`
	Name       string         `json:"name"`
	State      MigrationState `json:"state"`
	FailedStep int            `json:"failedStep,omitempty"`
	Error      string         `json:"error,omitempty"`
	RunID      string         `json:"runId,omitempty"`
	RanAt      time.Time      `json:"ranAt"`
}

// Journal is the bookkeeping of migrations run against one network
type Journal struct {
	Network     string                   `json:"network"`
	ChainID     uint64                   `json:"chainId,omitempty"`
	Migrations  map[int]*MigrationRecord `json:"migrations"`
	Deployments []*Deployment            `json:"deployments"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// NewJournal returns an empty journal for network
func NewJournal(network string) *Journal {
	return &Journal{
		Network:    network,
		Migrations: make(map[int]*MigrationRecord),
	}
}

// LastCompleted returns the highest migration number recorded as completed, or 0
func (j *Journal) LastCompleted() int {
	last := 0
	for number, record := range j.Migrations {
		if record.State == MigrationCompleted && number > last {
			last = number
		}
	}
	return last
}

// State returns the recorded state of a migration
func (j *Journal) State(number int) MigrationState {
	if record, ok := j.Migrations[number]; ok {
		return record.State
	}
	return MigrationPending
}

// Record stores the outcome of running m. Every successful deployment is
// kept, including those of a run that stopped part way.
func (j *Journal) Record(m *Migration, results []*DeployResult, runErr error, at time.Time) {
	record := &MigrationRecord{
		Number: m.Number,
		Name:   m.Name,
		State:  MigrationCompleted,
		RanAt:  at,
	}
	for _, res := range results {
		if res.Succeeded() && res.Deployment != nil {
			dep := *res.Deployment
			dep.Migration = m.Number
			j.Deployments = append(j.Deployments, &dep)
			continue
		}
		record.FailedStep = res.Index
	}
	if runErr != nil {
		record.State = MigrationFailed
		record.Error = runErr.Error()
	}
	j.Migrations[m.Number] = record
	j.UpdatedAt = at
}

// Reset forgets every migration and deployment
func (j *Journal) Reset() {
	j.Migrations = make(map[int]*MigrationRecord)
	j.Deployments = nil
}

// DeploymentsByMigration returns recorded deployments ordered by migration number
func (j *Journal) DeploymentsByMigration() []*Deployment {
	deps := make([]*Deployment, len(j.Deployments))
	copy(deps, j.Deployments)
	sort.SliceStable(deps, func(a, b int) bool {
		return deps[a].Migration < deps[b].Migration
	})
	return deps
}
