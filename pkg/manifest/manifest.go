// Package manifest reads the parts of a Cargo.toml the pipeline needs.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up in the project root.
const FileName = "Cargo.toml"

// ErrNoBinaryName is returned when the manifest names neither a [[bin]]
// target nor a package.
var ErrNoBinaryName = errors.New("manifest declares no binary or package name")

// Manifest is the subset of Cargo.toml decoded by this package.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Bin []struct {
		Name string `toml:"name"`
		Path string `toml:"path"`
	} `toml:"bin"`
}

// Load decodes the Cargo.toml found in projectRoot.
func Load(projectRoot string) (*Manifest, error) {
	path := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}

// BinaryName returns the first [[bin]] name, falling back to the package name.
func (m *Manifest) BinaryName() (string, error) {
	for _, b := range m.Bin {
		if b.Name != "" {
			return b.Name, nil
		}
	}
	if m.Package.Name != "" {
		return m.Package.Name, nil
	}
	return "", ErrNoBinaryName
}

// BinaryName loads the manifest in projectRoot and returns its binary name.
func BinaryName(projectRoot string) (string, error) {
	m, err := Load(projectRoot)
	if err != nil {
		return "", err
	}
	return m.BinaryName()
}
