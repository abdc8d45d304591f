// Package script persists the last configure command as a re-runnable
// shell or batch script.
package script

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultName is the script name without extension.
const DefaultName = "last_config"

// Kind selects the script flavour.
type Kind int

const (
	// Shell writes <name>.sh with a #!/bin/sh line and mode 0755.
	Shell Kind = iota
	// Batch writes <name>.bat ending in pause so the window stays open.
	Batch
)

// KindFor returns Batch on windows and Shell elsewhere.
func KindFor(goos string) Kind {
	if goos == "windows" {
		return Batch
	}
	return Shell
}

// Ext returns the file extension including the dot.
func (k Kind) Ext() string {
	if k == Batch {
		return ".bat"
	}
	return ".sh"
}

// Render returns the script body for command.
func (k Kind) Render(command string) string {
	if k == Batch {
		return command + "\npause\n"
	}
	return "#!/bin/sh\n" + command + "\n"
}

// Write stores command in dir/<name><ext> and returns the path written.
// An existing script is replaced.
func Write(fs afero.Fs, dir, name string, kind Kind, command string) (string, error) {
	if name == "" {
		name = DefaultName
	}
	path := filepath.Join(dir, name+kind.Ext())

	var mode os.FileMode = 0644
	if kind == Shell {
		mode = 0755
	}
	if err := afero.WriteFile(fs, path, []byte(kind.Render(command)), mode); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := fs.Chmod(path, mode); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return path, nil
}
