// internal/application/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	EmailEnabled bool
	AlertEnabled bool
	FromEmail    string
	StaffAddress string
	TopicARN     string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled: true,
		Timeout:      30 * time.Second,
	}
}
