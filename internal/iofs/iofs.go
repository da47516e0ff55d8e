// Package iofs prepares agrimart directories and configuration files
// in the user's home directory.
package iofs

import (
	_ "embed"
	"os"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/region"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed regions.yaml
var RegionsYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

func EnsureRegionsFile(homeDir string) error {
	return ensureFile(config.RegionsFilePath(homeDir), RegionsYAML)
}

// LoadRegions reads the regions registry from path.
func LoadRegions(path string) (*region.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return region.Parse(data)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}

	return nil
}
