package output

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Frontmatter is the metadata block written above each post body.
type Frontmatter struct {
	Title      string   `yaml:"title"`
	Date       string   `yaml:"date,omitempty"`
	Author     []string `yaml:"author,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	CoverImage string   `yaml:"coverImage,omitempty"`
	Draft      bool     `yaml:"draft,omitempty"`
}

// YAML renders the frontmatter without the surrounding --- markers.
func (f Frontmatter) YAML() (string, error) {
	out, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return string(out), nil
}
