package hook

import (
	"os"

	"specguard/internal/checkpoint"
	"specguard/internal/config"
	"specguard/internal/specfile"
)

// InExecutionContext reports whether the project is mid spec execution:
// an expectation artifact exists, any checkpoint file exists, or a spec
// file is discoverable in the project.
func InExecutionContext(projectDir string) bool {
	if _, err := os.Stat(config.ExpectFile()); err == nil {
		return true
	}
	if checkpoint.NewStore(config.StateDir(projectDir)).HasAny() {
		return true
	}
	_, ok := specfile.Find(projectDir)
	return ok
}
