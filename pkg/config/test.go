package config

func loadTestConfig(cfg *Config) {
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.DatabaseFilePath = ":memory:"
	cfg.FrontendURL = "http://localhost:6070"
	cfg.JWTSecret = "watchlog-test-secret"
	cfg.ServerHost = "127.0.0.1"
}
