package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
// The token validity is given in minutes, like the -t flag.
type JsonConfig struct {
	EndpointAddr                 string `json:"endpoint_addr"`
	DatabaseDSN                  string `json:"database_dsn"`
	SecretKey                    string `json:"secret_key"`
	TokenIssuer                  string `json:"token_issuer"`
	TokenAudience                string `json:"token_audience"`
	TokenValidityDurationMinutes int    `json:"token_validity_duration_minutes"`
	StorageBackend               string `json:"storage_backend"`
	UploadDir                    string `json:"upload_dir"`
	S3RootUser                   string `json:"s3_root_user"`
	S3RootPassword               string `json:"s3_root_password"`
	S3Bucket                     string `json:"s3_bucket"`
	S3Region                     string `json:"s3_region"`
	S3BaseEndpoint               string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenIssuer = c.TokenIssuer
	config.TokenAudience = c.TokenAudience
	config.TokenValidityDuration = time.Duration(c.TokenValidityDurationMinutes) * time.Minute
	config.StorageBackend = c.StorageBackend
	config.UploadDir = c.UploadDir
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
