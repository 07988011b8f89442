package config

// Built-in defaults.
const (
	DefaultDomain         = "localhost:2368"
	DefaultDir            = "./static"
	DefaultStylesheetPath = "assets/styles/crisp.css"
	DefaultMirrorCommand  = "wget"
	DefaultPreviewPort    = 9001
	DefaultAuthorName     = "Buster"
	DefaultAuthorEmail    = "buster@localhost"
)

// DefaultExtraPaths are mirrored in addition to the root page because
// nothing on the front page links to them.
var DefaultExtraPaths = []string{"about/"}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.NotFound.StylesheetPath == "" {
		cfg.NotFound.StylesheetPath = DefaultStylesheetPath
	}
	if cfg.Mirror.Command == "" {
		cfg.Mirror.Command = DefaultMirrorCommand
	}
	if cfg.Mirror.ExtraPaths == nil {
		cfg.Mirror.ExtraPaths = append([]string(nil), DefaultExtraPaths...)
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = DefaultPreviewPort
	}
	if cfg.Git.AuthorName == "" {
		cfg.Git.AuthorName = DefaultAuthorName
	}
	if cfg.Git.AuthorEmail == "" {
		cfg.Git.AuthorEmail = DefaultAuthorEmail
	}
	if t, err := ParseAuthType(string(cfg.Git.Auth.Type)); err == nil {
		cfg.Git.Auth.Type = t
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

// Default returns a configuration with only built-in defaults applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
