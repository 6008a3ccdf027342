package config

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	StorageConfig
}

type mainConfig struct {
	EnvVars
	Cors
	Session
	Storage
}

func New() Config {
	return mainConfig{}
}
