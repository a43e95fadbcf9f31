package consts

import (
	"os"
	"path/filepath"
)

// Constants for configuration paths and defaults
const (
	DefaultDirName   = ".bedrock"
	OutputsFileName  = "outputs.json"
	LastRunFileName  = "last-run.json"
	VaultLogFileName = "vault-dev.log"
	VaultPIDFileName = "vault-dev.pid"
)

// GetBedrockDir returns the state directory under the user's home,
// creating nothing.
func GetBedrockDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}
