// internal/application/validate-application-data/config.go
package validateapplicationdata

import _ "embed"

//go:embed application.schema.json
var defaultSchema []byte

type Config struct {
	// Schema is the JSON schema applied before the required-field policy.
	Schema []byte
}

func LoadConfig() *Config {
	return &Config{
		Schema: defaultSchema,
	}
}
