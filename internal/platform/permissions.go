package platform

import (
	"os"
	"runtime"
)

// DefaultFilePerm is used for files that do not exist yet.
const DefaultFilePerm os.FileMode = 0o644

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// FilePerm returns the permission bits of an existing file, or
// DefaultFilePerm when the file does not exist.
func FilePerm(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return DefaultFilePerm
	}
	return info.Mode().Perm()
}
