// Package manifest reads the packaging manifest shipped next to the binary
// (app.yaml). The manifest carries release metadata only; it is read once at
// startup and never watched or re-read.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FallbackVersion is served when the manifest is missing or malformed.
const FallbackVersion = "0.0.0"

// Manifest is the packaging metadata file.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// Read parses the manifest at path.
func Read(path string) (Manifest, error) {
	var m Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Version returns the version recorded in the manifest at path, or
// FallbackVersion when the file is absent, unparseable, or has no version
// field. Failures are reported through warn; they are never fatal.
func Version(path string, warn func(err error)) string {
	m, err := Read(path)
	if err != nil {
		if warn != nil {
			warn(err)
		}
		return FallbackVersion
	}
	if m.Version == "" {
		if warn != nil {
			warn(fmt.Errorf("manifest %s has no version field", path))
		}
		return FallbackVersion
	}
	return m.Version
}
