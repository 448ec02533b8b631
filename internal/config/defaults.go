package config

const (
	defaultWindowLength        = 10
	defaultConfidenceThreshold = 0.9999
	defaultVoteSize            = 3
	defaultTemplateTolerance   = 0.35
	defaultExportDir           = "~/.local/share/mudra/captures"
	defaultExportWidth         = 24
	defaultDBPath              = "~/.local/share/mudra/mudra.db"
	defaultCameraDevice        = "0"
	defaultCameraFPS           = 15
	defaultIdleTimeoutMS       = 1500
	defaultMaxHands            = 1
	defaultPluginDir           = "~/.config/mudra/plugins"
	defaultPluginTimeoutMS     = 5000
	defaultServerAddr          = "127.0.0.1:7878"
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Recognizer: Recognizer{
			WindowLength:        defaultWindowLength,
			ConfidenceThreshold: defaultConfidenceThreshold,
			VoteSize:            defaultVoteSize,
		},
		Model: Model{
			TemplateTolerance: defaultTemplateTolerance,
		},
		Export: Export{
			Dir:   defaultExportDir,
			Width: defaultExportWidth,
		},
		Store: Store{
			DBPath: defaultDBPath,
		},
		Camera: Camera{
			Device:              defaultCameraDevice,
			FPS:                 defaultCameraFPS,
			IdleTimeoutMS:       defaultIdleTimeoutMS,
			EndSessionOnGesture: true,
		},
		Detector: Detector{
			MaxHands: defaultMaxHands,
		},
		Plugins: Plugins{
			Dir:       defaultPluginDir,
			TimeoutMS: defaultPluginTimeoutMS,
		},
		Server: Server{
			Addr: defaultServerAddr,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
