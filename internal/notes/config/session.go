package config

import "time"

// SessionConfig настройки сессионных токенов и хеширования паролей.
type SessionConfig struct {
	SecretKey  string        `yaml:"secret_key" env:"NOTES_SESSION_SECRET_KEY" env-default:"change-me-notes-session-secret"`
	Issuer     string        `yaml:"issuer" env:"NOTES_SESSION_ISSUER" env-default:"yanote"`
	TTL        time.Duration `yaml:"ttl" env:"NOTES_SESSION_TTL" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env:"NOTES_SESSION_COOKIE" env-default:"sessionid"`
	Secure     bool          `yaml:"secure" env:"NOTES_SESSION_SECURE" env-default:"false"`
	BCryptCost int           `yaml:"bcrypt_cost" env:"NOTES_BCRYPT_COST" env-default:"10"`
}

// GetTTL возвращает время жизни сессии, по умолчанию сутки.
func (c *SessionConfig) GetTTL() time.Duration {
	if c.TTL <= 0 {
		return 24 * time.Hour
	}
	return c.TTL
}
