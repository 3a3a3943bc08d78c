package app

import (
	"fmt"
	"net/url"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// DashboardService issues signed, expiring share links to the external score
// dashboard. The token ties the link to the requesting user so stale links in
// a chat history cannot be replayed indefinitely.
type DashboardService struct {
	secret  string
	issuer  string
	baseURL string
}

const dashboardTokenTTL = time.Hour

// NewDashboardService constructs the share link signer.
func NewDashboardService(secret, issuer, baseURL string) *DashboardService {
	return &DashboardService{
		secret:  secret,
		issuer:  issuer,
		baseURL: baseURL,
	}
}

// ShareToken signs an HS256 token granting read access to the dashboard.
func (s *DashboardService) ShareToken(user string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("dashboard service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.baseURL == "" {
		return "", fmt.Errorf("dashboard config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"aud": "dashboard",
		"exp": time.Now().Add(dashboardTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ShareLink returns the dashboard URL with an access token for the user.
func (s *DashboardService) ShareLink(user string) (string, error) {
	tokenString, err := s.ShareToken(user)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid dashboard base URL: %w", err)
	}
	q := u.Query()
	q.Set("token", tokenString)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
