package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estatedesk/internal/authz"
	"github.com/estatedesk/estatedesk/internal/config"
	"github.com/estatedesk/estatedesk/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
}

func TestGenerateAndParse(t *testing.T) {
	cfg := testConfig()
	u := &models.User{ID: "u-1", Role: authz.RoleAgent, Email: "a@example.com", FirstName: "A", LastName: "B"}

	raw, err := GenerateAccessToken(cfg, u, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	actor, err := ParseAccessToken(cfg, raw)
	require.NoError(t, err)
	require.Equal(t, "u-1", actor.ID)
	require.Equal(t, authz.RoleAgent, actor.Role)
}

func TestParse_Expired(t *testing.T) {
	cfg := testConfig()
	u := &models.User{ID: "u-1", Role: authz.RoleClient}

	raw, err := GenerateAccessToken(cfg, u, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	u := &models.User{ID: "u-1", Role: authz.RoleClient}
	raw, err := GenerateAccessToken(testConfig(), u, time.Minute)
	require.NoError(t, err)

	other := &config.Config{JWT: config.JWTConfig{Secret: "other"}}
	_, err = ParseAccessToken(other, raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := ParseAccessToken(testConfig(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
