package config

const (
	defaultAPIBaseURL        = "https://api.airlift.dev"
	defaultAPITimeoutSeconds = 60
	defaultDataDir           = "~/.local/share/airlift"
	defaultLogDir            = "~/.local/share/airlift/logs"
	defaultCredentialsFile   = "~/.config/airlift/credentials"
	defaultFlutterBinary     = "flutter"
	defaultGitBinary         = "git"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			TimeoutSeconds: defaultAPITimeoutSeconds,
		},
		Paths: Paths{
			DataDir:         defaultDataDir,
			LogDir:          defaultLogDir,
			CredentialsFile: defaultCredentialsFile,
		},
		Flutter: Flutter{
			Binary:    defaultFlutterBinary,
			GitBinary: defaultGitBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
