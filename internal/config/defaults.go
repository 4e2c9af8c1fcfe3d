package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:        "~/.config/momentline",
			SQLiteFile:  "momentline.db",
			JournalMode: "wal",
		},
		View: ViewConfig{
			Timezone:      "Local",
			ViewportWidth: 1200,
			DefaultZoom:   "hour",
			AxisY:         400,
			CellWidth:     8,
		},
		Retention: RetentionConfig{
			Days: 365,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "momentline.log",
		},
	}
}
