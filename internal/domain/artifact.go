package domain

import (
	"encoding/json"
	"strings"
)

// ArtifactFormat identifies the build tool layout an artifact was read from
type ArtifactFormat string

const (
	FormatFoundry ArtifactFormat = "foundry"
	FormatTruffle ArtifactFormat = "truffle"
)

// Artifact is the compiled output of a contract: bytecode plus its ABI
type Artifact struct {
	Name           string          `json:"name"`
	SourcePath     string          `json:"sourcePath,omitempty"`
	ArtifactPath   string          `json:"artifactPath"`
	Format         ArtifactFormat  `json:"format"`
	ABI            json.RawMessage `json:"abi"`
	Bytecode       string          `json:"bytecode"`
	LinkReferences map[string]any  `json:"linkReferences,omitempty"`
}

// Deployable reports whether the artifact carries creation bytecode.
// Interfaces and abstract contracts compile to an empty object.
func (a *Artifact) Deployable() bool {
	code := strings.TrimPrefix(a.Bytecode, "0x")
	return code != ""
}

// NeedsLinking reports whether the bytecode still contains library placeholders
func (a *Artifact) NeedsLinking() bool {
	return len(a.LinkReferences) > 0 || strings.Contains(a.Bytecode, "__")
}
