package config

// JWTConfig содержит ключ проверки access-токенов. Токены выпускает внешний сервис авторизации.
type JWTConfig struct {
	SecretKey string `yaml:"secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
}
