package config

// DefaultIncludes are glob patterns matched against files during batch upload.
var DefaultIncludes = []string{
	"**/*.pdf",
	"**/*.doc",
	"**/*.docx",
	"**/*.txt",
	"**/*.rtf",
}

// DefaultExcludes are glob patterns skipped during batch upload by default.
var DefaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/~$*",
	"**/*.tmp",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:8000",
		Port:           3000,
		DataDir:        ".clauselens",
		RequestTimeout: 120,
		CompanyName:    "Your Company",
		Include:        DefaultIncludes,
		Exclude:        DefaultExcludes,
		Upload: UploadConfig{
			MaxSizeMB: 25,
			StrictPDF: false,
			WarnScans: true,
		},
	}
}
