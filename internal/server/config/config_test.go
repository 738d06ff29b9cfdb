package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, StorageDisk, cfg.StorageBackend)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "FileManagementAPI", cfg.TokenIssuer)
	assert.Equal(t, "FileManagementClient", cfg.TokenAudience)
	assert.Equal(t, 60*time.Minute, cfg.TokenValidityDuration)
	assert.NotEmpty(t, cfg.SecretKey)
	assert.NotEmpty(t, cfg.DatabaseDSN)
}
