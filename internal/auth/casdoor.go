package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-generation-service/internal/config"
	"github.com/SAP-F-2025/exam-generation-service/internal/models"
	"github.com/SAP-F-2025/exam-generation-service/internal/repositories"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

// CasdoorVerifier accepts tokens issued by a Casdoor server. Users seen for
// the first time get a local account so their exams have an owner.
type CasdoorVerifier struct {
	client *casdoorsdk.Client
	users  repositories.UserRepository
}

func NewCasdoorVerifier(cfg config.AuthConfig, users repositories.UserRepository) *CasdoorVerifier {
	client := casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
	return &CasdoorVerifier{client: client, users: users}
}

func (v *CasdoorVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.User.Name == "" {
		return nil, fmt.Errorf("%w: missing user name", ErrInvalidToken)
	}

	user, err := v.users.GetByUsername(ctx, claims.User.Name)
	if errors.Is(err, repositories.ErrNotFound) {
		user = &models.User{
			Username: claims.User.Name,
			Email:    claims.User.Email,
			IsActive: true,
		}
		err = v.users.Create(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving casdoor user %s: %w", claims.User.Name, err)
	}

	return &Identity{UserID: user.ID, Username: user.Username}, nil
}

// NewVerifier picks the verifier for cfg.Provider.
func NewVerifier(cfg config.AuthConfig, jwtManager *JWTManager, users repositories.UserRepository) (TokenVerifier, error) {
	switch cfg.Provider {
	case "local", "":
		return jwtManager, nil
	case "casdoor":
		if cfg.CasdoorEndpoint == "" || cfg.CasdoorCertificate == "" {
			return nil, errors.New("casdoor endpoint and certificate are required")
		}
		return NewCasdoorVerifier(cfg, users), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

var _ TokenVerifier = (*CasdoorVerifier)(nil)
