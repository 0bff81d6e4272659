package depcheck

// Classifier separates standard-library module names from third-party ones
// and maps import roots to installable requirement names. It is injectable
// configuration: the inference heuristic should never hard-code this.
type Classifier struct {
	stdlib map[string]struct{}
	// distributions maps an import root to the requirement name that
	// provides it when the two differ (yaml -> PyYAML)
	distributions map[string]string
}

// NewClassifier builds a classifier from a stdlib allow-list and a
// module-to-distribution mapping.
func NewClassifier(stdlib []string, distributions map[string]string) *Classifier {
	c := &Classifier{
		stdlib:        make(map[string]struct{}, len(stdlib)),
		distributions: make(map[string]string, len(distributions)),
	}
	for _, name := range stdlib {
		c.stdlib[name] = struct{}{}
	}
	for module, dist := range distributions {
		c.distributions[module] = dist
	}
	return c
}

// IsStdlib reports whether root is a standard-library module.
func (c *Classifier) IsStdlib(root string) bool {
	_, ok := c.stdlib[root]
	return ok
}

// Requirement returns the requirement specifier for an import root.
func (c *Classifier) Requirement(root string) string {
	if dist, ok := c.distributions[root]; ok {
		return dist
	}
	return root
}

// DefaultClassifier covers the Python runtime that plugin entrypoints
// typically target.
func DefaultClassifier() *Classifier {
	stdlib := []string{
		"abc", "argparse", "asyncio", "base64", "collections", "configparser",
		"contextlib", "copy", "csv", "dataclasses", "datetime", "enum",
		"functools", "glob", "gzip", "hashlib", "http", "inspect", "io",
		"itertools", "json", "logging", "math", "os", "pathlib", "pickle",
		"queue", "random", "re", "secrets", "select", "shutil", "signal",
		"socket", "sqlite3", "statistics", "string", "struct", "subprocess",
		"sys", "tempfile", "textwrap", "threading", "time", "traceback",
		"types", "typing", "unittest", "urllib", "uuid", "warnings", "zipfile",
	}
	distributions := map[string]string{
		"yaml":   "PyYAML",
		"bs4":    "beautifulsoup4",
		"PIL":    "Pillow",
		"dotenv": "python-dotenv",
	}
	return NewClassifier(stdlib, distributions)
}
