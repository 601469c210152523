// ABOUTME: Personality profile loading and validation
// ABOUTME: A profile is a named base system prompt; extra profiles are parsed from YAML files

package personality

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a named base system prompt.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

var validName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// LoadProfile reads a single YAML profile from a file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	p.Prompt = strings.TrimSpace(p.Prompt)

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate profile %s: %w", path, err)
	}

	return &p, nil
}

// LoadProfiles reads all YAML profiles from a directory.
func LoadProfiles(dir string) (map[string]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read profiles directory %s: %w", dir, err)
	}

	profiles := make(map[string]*Profile)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		p, err := LoadProfile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if _, dup := profiles[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile %q in %s", p.Name, dir)
		}
		profiles[p.Name] = p
	}

	return profiles, nil
}

// Validate checks that a profile's fields are valid.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if !validName.MatchString(p.Name) {
		return fmt.Errorf("invalid profile name %q: use lowercase letters, digits, '-' or '_'", p.Name)
	}
	if strings.TrimSpace(p.Prompt) == "" {
		return fmt.Errorf("profile %q has an empty prompt", p.Name)
	}
	return nil
}
