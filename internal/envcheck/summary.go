package envcheck

import (
	"fmt"
	"strings"
)

// Summary renders a human-readable report: per plugin the variables it
// declares with required/optional annotation, followed by overall totals.
func (e *Engine) Summary() string {
	var b strings.Builder
	b.WriteString("Environment Variable Summary\n")
	b.WriteString("============================\n")

	for _, md := range e.registry.Plugins() {
		if len(md.EnvVars) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s (%s)\n", md.Name, md.Identifier))
		for _, spec := range md.EnvVars {
			marker := "optional"
			if spec.Required {
				marker = "required"
			}
			line := fmt.Sprintf("  %s (%s) - %s", spec.Name, marker, spec.Description)
			if spec.Default != "" {
				line += fmt.Sprintf(" [default: %s]", spec.Default)
			}
			b.WriteString(line + "\n")
		}
	}

	required := 0
	for _, merged := range e.AllVars() {
		if merged.Required {
			required++
		}
	}
	b.WriteString(fmt.Sprintf("\nTotals: %d plugins, %d variables (%d required, %d optional)\n",
		e.registry.PluginCount(), len(e.names), required, len(e.names)-required))
	return b.String()
}
