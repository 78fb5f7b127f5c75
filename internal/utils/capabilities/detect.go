package capabilities

import "os/exec"

// Which returns the path to a binary, if found (i.e. git -> /usr/bin/git).
func Which(binary string) (string, error) {
	return exec.LookPath(binary)
}

// IsCommandAvailable tests if a command is available on PATH.
func IsCommandAvailable(binary string) bool {
	_, err := exec.LookPath(binary)

	return err == nil
}
