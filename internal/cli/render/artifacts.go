package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// ArtifactsRenderer renders the build artifacts steps can reference
type ArtifactsRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.ListArtifactsResult] = (*ArtifactsRenderer)(nil)

// NewArtifactsRenderer creates a new artifacts renderer
func NewArtifactsRenderer(out io.Writer) *ArtifactsRenderer {
	return &ArtifactsRenderer{out: out}
}

// Render writes the artifact table
func (r *ArtifactsRenderer) Render(result *usecase.ListArtifactsResult) error {
	if len(result.Artifacts) == 0 {
		fmt.Fprintln(r.out, "No artifacts found. Compile the contracts first.")
		return nil
	}

	t := newTable(r.out, table.Row{"Name", "Format", "Deployable", "Path"})
	for _, a := range result.Artifacts {
		deployable := successColor.Sprint("yes")
		if !a.Deployable() {
			deployable = faintColor.Sprint("no")
		}
		path := a.SourcePath
		if path == "" {
			path = relativePath(a.ArtifactPath)
		}
		t.AppendRow(table.Row{a.Name, a.Format, deployable, path})
	}
	t.Render()
	fmt.Fprintf(r.out, "\n%d artifact(s)\n", len(result.Artifacts))
	return nil
}
