package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		Site: SiteConfig{
			Title:       "My Portfolio",
			Description: "Projects, writing and documentation",
			BaseURL:     "https://example.com",
		},
		Content: ContentConfig{
			Root:    defaultRoot,
			DocsDir: defaultDocsDir,
			BlogDir: defaultBlogDir,
		},
		Sections: []SectionConfig{
			{
				Key:         "personal",
				Title:       "Personal API Documentation",
				Description: "Documentation for personal APIs and public services.",
				Icon:        "🔧",
			},
			{
				Key:         "gateway",
				Title:       "API Gateway Documentation",
				Description: "Complete API reference for the gateway services.",
				Icon:        "⚡",
			},
		},
		Output: OutputConfig{
			Directory: defaultOutputDir,
			Clean:     true,
		},
		Preview: PreviewConfig{
			Port:         defaultPort,
			Debounce:     defaultDebounce.String(),
			Retries:      2,
			RetryBackoff: RetryBackoffLinear,
			RetryInitial: "200ms",
			RetryMax:     "2s",
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
