package config

// Config represents the main pulley configuration
type Config struct {
	Version string       `yaml:"version"`
	App     AppConfig    `yaml:"app"`
	Python  PythonConfig `yaml:"python"`
	Source  SourceConfig `yaml:"source"`
	Host    HostConfig   `yaml:"host,omitempty"`
}

// AppConfig identifies the application being deployed
type AppConfig struct {
	Name string `yaml:"name"`
}

// PythonConfig describes the interpreter and environment layout
type PythonConfig struct {
	// Interpreter is the command used to create the virtualenv,
	// e.g. "python3.10" or an absolute path
	Interpreter string `yaml:"interpreter"`
	// Venv is the virtualenv directory, relative to the project root
	Venv string `yaml:"venv"`
	// Requirements is the dependency manifest, relative to the project root
	Requirements string `yaml:"requirements"`
}

// SourceConfig names the remote branch that is authoritative for deploys
type SourceConfig struct {
	Remote string `yaml:"remote"`
	Branch string `yaml:"branch"`
}

// HostConfig carries optional hosting-platform details for operator output
type HostConfig struct {
	// Panel is the control panel where the operator reloads the app
	Panel string `yaml:"panel,omitempty"`
	// Domain is the site the app serves
	Domain string `yaml:"domain,omitempty"`
}

// DefaultConfig returns the default pulley configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		App: AppConfig{
			Name: "webapp",
		},
		Python: PythonConfig{
			Interpreter:  "python3.10",
			Venv:         ".venv",
			Requirements: "requirements.txt",
		},
		Source: SourceConfig{
			Remote: "origin",
			Branch: "main",
		},
	}
}
