package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintln(r.out, FormatWarning("No .treb/config.local.json file found"))
	} else {
		fmt.Fprintln(r.out, "📋 Current config:")
		network := result.Config.Network
		if network == "" {
			network = "(not set)"
		}
		fmt.Fprintf(r.out, "Network:   %s\n", network)
		fmt.Fprintf(r.out, "📁 config file: %s\n", relativePath(result.ConfigPath))
	}

	if result.Effective != nil && (result.Config == nil || result.Effective.Name != result.Config.Network) {
		fmt.Fprintf(r.out, "\nEffective network: %s %s\n", result.Effective.Name, faintColor.Sprint("(from flag, environment or migrate.toml)"))
	}
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Set %s to: %s", result.Key, result.Value)))
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", relativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintf(r.out, "%s was not set\n", result.Key)
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %s (was %s)", result.Key, result.RemovedValue)))
	}
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", relativePath(result.ConfigPath))
	return nil
}
