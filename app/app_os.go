package app

import (
	"os"
	"path/filepath"
)

func Dir() (string, error) {
	return os.Getwd()
}

// Executable returns the resolved path of the running binary, as written into
// client configurations.
func Executable() (string, error) {
	path, err := os.Executable()

	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(path)
}
