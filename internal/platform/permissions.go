package platform

import (
	"os"
	"runtime"

	"github.com/spf13/afero"
)

// Chmod sets file permissions on fsys. On Windows this is a no-op because
// Windows does not support Unix-style permission bits.
func Chmod(fsys afero.Fs, path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return fsys.Chmod(path, mode)
}

// FileMode returns the mode a generated file is written with.
func FileMode(executable bool) os.FileMode {
	if executable {
		return 0755
	}
	return 0644
}
