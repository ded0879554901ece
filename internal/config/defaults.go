package config

import "time"

const (
	defaultSiteTitle = "Portfolio"
	defaultRoot      = "content"
	defaultDocsDir   = "docs"
	defaultBlogDir   = "blog"
	defaultOutputDir = "./dist"
	defaultPort      = 4173
	defaultDebounce  = 300 * time.Millisecond
	defaultLogLevel  = LogLevelInfo
	defaultLogFormat = LogFormatText
)

// applyDefaults fills unset fields. It runs before validation so canonical
// values drive the checks.
func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaultSiteTitle
	}
	if cfg.Content.Root == "" {
		cfg.Content.Root = defaultRoot
	}
	if cfg.Content.DocsDir == "" {
		cfg.Content.DocsDir = defaultDocsDir
	}
	if cfg.Content.BlogDir == "" {
		cfg.Content.BlogDir = defaultBlogDir
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = defaultOutputDir
		cfg.Output.Clean = true
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = defaultPort
	}
	if cfg.Preview.Debounce == "" {
		cfg.Preview.Debounce = defaultDebounce.String()
	}
	if mode := NormalizeRetryBackoff(string(cfg.Preview.RetryBackoff)); mode != "" {
		cfg.Preview.RetryBackoff = mode
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
