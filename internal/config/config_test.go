package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ReleaseRequiresSecrets(t *testing.T) {
	tests := []struct {
		name    string
		jwt     string
		session string
		wantErr bool
	}{
		{"both unset", "", "", true},
		{"jwt unset", "", "session-secret", true},
		{"session unset", "jwt-secret", "", true},
		{"both set", "jwt-secret", "session-secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIN_MODE", "release")
			t.Setenv("JWT_SECRET", tt.jwt)
			t.Setenv("SESSION_SECRET", tt.session)

			err := Load().Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInsecureSecret)
				return
			}
			require.NoError(t, err)
		})
	}
}
