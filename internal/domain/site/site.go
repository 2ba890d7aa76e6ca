// Package site holds the site-wide configuration model loaded from site.yaml.
package site

import "fmt"

// Config describes the site: identity, author, navigation, and theme.
type Config struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`

	Author Author       `yaml:"author"`
	Social []SocialLink `yaml:"social"`
	Theme  Theme        `yaml:"theme"`

	// ShowDrafts publishes posts marked draft, for local preview.
	ShowDrafts bool `yaml:"show_drafts"`
}

// Author identifies the site owner.
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// SocialLink is one entry in the social links list.
type SocialLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Theme controls presentation.
type Theme struct {
	Mode   string `yaml:"mode"`   // auto, light, dark
	Accent string `yaml:"accent"` // CSS color
}

// Validate checks required fields and fills theme defaults.
func (c *Config) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("site config: title is required")
	}
	if c.Author.Name == "" {
		return fmt.Errorf("site config: author.name is required")
	}
	switch c.Theme.Mode {
	case "":
		c.Theme.Mode = "auto"
	case "auto", "light", "dark":
	default:
		return fmt.Errorf("site config: invalid theme mode %q", c.Theme.Mode)
	}
	if c.Theme.Accent == "" {
		c.Theme.Accent = "#2563eb"
	}
	return nil
}
