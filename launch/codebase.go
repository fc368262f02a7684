package launch

import (
	"fmt"
	"os"
	"path/filepath"
)

// Codebase returns the parent of the directory holding exe, the way the launcher scripts
// located the source tree from their own path. The result does not depend on the
// working directory as long as exe is absolute.
func Codebase(exe string) (string, error) {
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", exe, err)
	}
	if resolved, err = filepath.Abs(resolved); err != nil {
		return "", fmt.Errorf("resolve %s: %w", exe, err)
	}
	return filepath.Dir(filepath.Dir(resolved)), nil
}

// ExecutableCodebase is Codebase applied to the running binary.
func ExecutableCodebase() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return Codebase(exe)
}
