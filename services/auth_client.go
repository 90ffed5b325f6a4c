// course-learning-system/services/auth_client.go
package services

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type AuthServiceClient struct {
	client *resty.Client
}

type ValidateResponse struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

func NewAuthServiceClient(baseURL, token string) *AuthServiceClient {
	return &AuthServiceClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(token). // Service → Auth service token
			SetTimeout(10 * time.Second),
	}
}

// ValidateToken calls /auth/validate on the auth service. Used by the SSE
// route, where browsers cannot set headers and the token rides a query param.
func (c *AuthServiceClient) ValidateToken(accessToken string) (*ValidateResponse, error) {
	var out ValidateResponse
	resp, err := c.client.R().
		SetBody(map[string]interface{}{"access_token": accessToken}).
		SetResult(&out).
		Post("/auth/validate")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		log.Printf("AuthService /validate returned %d: %s", resp.StatusCode(), resp.String())
		return nil, fmt.Errorf("auth validation failed: %d", resp.StatusCode())
	}

	return &out, nil
}
