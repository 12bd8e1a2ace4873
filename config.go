package main

var ServiceConfig Config

type Config struct {
	AdminSecret string         `json:"admin_secret"`
	Database    DatabaseConfig `json:"database"`
	Redis       RedisConfig    `json:"redis"`
	Jwt         JwtConfig      `json:"jwt"`
	Storage     StorageConfig  `json:"storage"`
	Google      GoogleConfig   `json:"google"`
	Gemini      GeminiConfig   `json:"gemini"`
}

type DatabaseConfig struct {
	Host               string `json:"host"`
	Port               int    `json:"port"`
	User               string `json:"username"`
	Password           string `json:"password"`
	Database           string `json:"database"`
	MaxIdleConnections int    `json:"max_idle_connections"`
	MaxOpenConnections int    `json:"max_open_connections"`
}

type RedisConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type JwtConfig struct {
	Secret  string `json:"secret"`
	Timeout int    `json:"timeout"`
}

type StorageConfig struct {
	AccessKey      string `json:"access_key"`
	SecretKey      string `json:"secret_key"`
	Bucket         string `json:"bucket"`
	Region         string `json:"region"`
	PresignSeconds int    `json:"presign_seconds"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type GoogleConfig struct {
	OAuthClientId string `json:"oauth_client_id"`
}

type GeminiConfig struct {
	ApiKey         string `json:"api_key"`
	Url            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}
