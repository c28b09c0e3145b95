package cfg

type Cfg struct {
	// MTP vendor API configuration
	APIUsername   string
	APIPassword   string
	APIServiceURL string

	// Application configuration
	DBPath      string
	TemplateDir string
	OutputDir   string
	Port        string

	// Serve command configuration
	APIAccessKey string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
