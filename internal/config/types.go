package config

// Config is the top-level clauselens configuration, corresponding to .clauselens.yml.
type Config struct {
	BackendURL     string       `yaml:"backend_url" koanf:"backend_url"`
	Port           int          `yaml:"port" koanf:"port"`
	DataDir        string       `yaml:"data_dir" koanf:"data_dir"`
	RequestTimeout int          `yaml:"request_timeout" koanf:"request_timeout"` // seconds
	CompanyName    string       `yaml:"company_name" koanf:"company_name"`
	Include        []string     `yaml:"include" koanf:"include"`
	Exclude        []string     `yaml:"exclude" koanf:"exclude"`
	AllowAll       bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Upload         UploadConfig `yaml:"upload" koanf:"upload"`
}

// UploadConfig holds client-side upload validation settings.
type UploadConfig struct {
	MaxSizeMB int  `yaml:"max_size_mb" koanf:"max_size_mb"`
	StrictPDF bool `yaml:"strict_pdf" koanf:"strict_pdf"` // reject PDFs the local parser cannot open
	WarnScans bool `yaml:"warn_scans" koanf:"warn_scans"` // warn when a PDF looks scanned (no text layer)
}
