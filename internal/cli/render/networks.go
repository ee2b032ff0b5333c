package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render writes every known network, marking the selected one
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in migrate.toml")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out, table.Row{"", "Name", "Backend", "Endpoint", "Chain ID", "Local"})
	for _, network := range result.Networks {
		marker := ""
		if network.Name == result.Selected {
			marker = successColor.Sprint("*")
		}
		if network.Error != nil {
			t.AppendRow(table.Row{marker, network.Name, "", errorColor.Sprintf("error: %v", network.Error), "", ""})
			continue
		}
		chainID := "auto"
		if network.ChainID != 0 {
			chainID = fmt.Sprintf("%d", network.ChainID)
		}
		local := ""
		if network.Local {
			local = "yes"
		}
		t.AppendRow(table.Row{marker, network.Name, network.Backend, network.Endpoint, chainID, local})
	}
	t.Render()
	return nil
}
