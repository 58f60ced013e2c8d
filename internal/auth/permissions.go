package auth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Permissions maps role -> []permission
type Permissions map[string][]string

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPermissions reads a permissions.yml file.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permissions: %w", err)
	}
	return ParsePermissions(b)
}

func ParsePermissions(b []byte) (Permissions, error) {
	var pf permissionsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parse permissions: %w", err)
	}
	if len(pf.Roles) == 0 {
		return nil, fmt.Errorf("parse permissions: no roles defined")
	}
	return Permissions(pf.Roles), nil
}
