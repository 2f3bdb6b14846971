package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Extract.OutputDir == "" {
		cfg.Extract.OutputDir = "/usr/local/var/vsdx/extracted"
	}
	if cfg.Extract.Workers == 0 {
		cfg.Extract.Workers = 1
	}
	if cfg.History.DatabasePath == "" {
		cfg.History.DatabasePath = "/usr/local/var/vsdx/history.db"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash-exp"
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
