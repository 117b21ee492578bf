package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/option"
)

type AuthMiddleware struct {
	authClient *auth.Client
}

func NewAuthMiddleware(ctx context.Context) (*AuthMiddleware, error) {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "FIREBASE_PROJECT_ID is not set")
	}
	var opts []option.ClientOption
	if creds := os.Getenv("FIREBASE_CREDENTIALS_FILE"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{authClient: client}, nil
}

// RequireAuth verifies the bearer token and attaches the principal (uid plus
// the role custom claim) to the request context. Tokens without a role claim
// default to buyer; the claim is set at registration.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := m.authClient.VerifyIDToken(c.Request().Context(), tokenStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		p := authctx.Principal{UID: token.UID, Role: model.RoleBuyer}
		if role, ok := token.Claims["role"].(string); ok && model.Role(role).Valid() {
			p.Role = model.Role(role)
		}
		ctx := authctx.WithPrincipal(c.Request().Context(), p)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func (m *AuthMiddleware) Client() *auth.Client {
	return m.authClient
}
