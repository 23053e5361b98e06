package utils

import "os"

// Standard default permissions
// File: u=rw, g=rw, o=r
const PermFile os.FileMode = 0664

// Dir:  u=rwx, g=rwx, o=rx (Requires +x to traverse)
const PermDir os.FileMode = 0775

// Executable: u=rwx, g=rx, o=rx
const PermExec os.FileMode = 0755

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir checks if a directory exists, and creates it if it doesn't.
func EnsureDir(path string) error {
	if DirExists(path) {
		return nil
	}
	return os.MkdirAll(path, PermDir)
}
