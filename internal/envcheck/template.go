package envcheck

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/batteryshark/agentkit/internal/errors"
)

// RenderTemplate produces the env template content: one commented block per
// variable, grouped by declaring plugin in registration order, within a
// plugin in declaration order. A name declared by several plugins appears
// once, under its first declarer, with the merged spec. Output is
// deterministic: regenerating from an unchanged registry is byte-identical.
func (e *Engine) RenderTemplate() []byte {
	var b strings.Builder
	b.WriteString("# Environment configuration template\n")
	b.WriteString("# Generated by agentkit. Copy to .env and fill in values.\n")

	emitted := make(map[string]struct{})
	for _, md := range e.registry.Plugins() {
		var block []string
		for _, spec := range md.EnvVars {
			if _, done := emitted[spec.Name]; done {
				continue
			}
			emitted[spec.Name] = struct{}{}

			merged := e.merge(spec.Name)
			marker := "optional"
			if merged.Required {
				marker = "required"
			}
			block = append(block,
				fmt.Sprintf("# %s (%s)\n%s=%s\n", merged.Description, marker, merged.Name, merged.Default))
		}
		if len(block) == 0 {
			continue
		}

		b.WriteString(fmt.Sprintf("\n# ---- %s (%s) ----\n\n", md.Name, md.Identifier))
		for _, entry := range block {
			b.WriteString(entry)
		}
	}
	return []byte(b.String())
}

// TemplateDigest returns the blake3 digest of the rendered template,
// hex-encoded.
func (e *Engine) TemplateDigest() string {
	sum := blake3.Sum256(e.RenderTemplate())
	return hex.EncodeToString(sum[:])
}

// WriteTemplate renders the template to path and returns its digest. The
// write is the engine's only external side effect; filesystem failures
// propagate to the caller.
func (e *Engine) WriteTemplate(path string) (string, error) {
	content := e.RenderTemplate()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", errors.NewTemplateWriteError(path, err)
	}
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}
