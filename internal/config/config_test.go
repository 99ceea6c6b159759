package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemoteConfigured(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "empty", url: "", want: false},
		{name: "placeholder", url: PlaceholderDatabaseURL, want: false},
		{name: "other placeholder host", url: "postgres://u:p@placeholder-project.example.com/db", want: false},
		{name: "http scheme", url: "https://project.supabase.co", want: false},
		{name: "no host", url: "postgres:///db", want: false},
		{name: "postgres", url: "postgres://u:p@db.example.com:5432/shop?sslmode=require", want: true},
		{name: "postgresql", url: "postgresql://u:p@localhost/shop", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{DatabaseURL: tt.url}.RemoteConfigured())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DATABASE_URL", "  postgres://u:p@localhost/shop ")
	t.Setenv("WEBHOOK_TIMEOUT", "not-a-duration")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MASTER_ADMIN_USERNAME", "")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost/shop", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "admin", cfg.MasterAdminUsername)
	assert.True(t, cfg.RemoteConfigured())
}
