package SharePoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKey = "sharepoint_access_token"

// AuthClient obtains Microsoft Graph access tokens via the client-credentials
// grant and caches them in Redis until shortly before expiry.
type AuthClient struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	rdb          *redis.Client
	client       *http.Client
}

func NewAuthClient(tokenURL, clientID, clientSecret string, rdb *redis.Client) *AuthClient {
	return &AuthClient{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        "https://graph.microsoft.com/.default",
		rdb:          rdb,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

type graphTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetAccessToken returns the cached token or fetches a new one.
func (a *AuthClient) GetAccessToken(ctx context.Context) (string, error) {
	if token, err := a.rdb.Get(ctx, tokenKey).Result(); err == nil && token != "" {
		return token, nil
	}

	tokenData, err := a.FetchToken(ctx)
	if err != nil {
		return "", err
	}
	if err := a.StoreToken(ctx, tokenData.AccessToken, tokenData.ExpiresIn); err != nil {
		return "", err
	}
	return tokenData.AccessToken, nil
}

// FetchToken always goes to the login endpoint.
func (a *AuthClient) FetchToken(ctx context.Context) (*graphTokenResponse, error) {
	data := url.Values{
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
		"scope":         {a.scope},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting graph token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph token request failed with status %d", resp.StatusCode)
	}

	var tokenData graphTokenResponse
	if err := json.Unmarshal(body, &tokenData); err != nil {
		return nil, fmt.Errorf("parsing graph token response: %w", err)
	}
	if tokenData.ExpiresIn == 0 {
		tokenData.ExpiresIn = 3590
	}
	return &tokenData, nil
}

// StoreToken caches the token for its lifetime.
func (a *AuthClient) StoreToken(ctx context.Context, token string, expiresIn int) error {
	return a.rdb.Set(ctx, tokenKey, token, time.Duration(expiresIn)*time.Second).Err()
}

// RefreshToken force-fetches and stores a new token; called by the cron job
// so interactive requests rarely pay the login round-trip.
func (a *AuthClient) RefreshToken(ctx context.Context) error {
	tokenData, err := a.FetchToken(ctx)
	if err != nil {
		return err
	}
	return a.StoreToken(ctx, tokenData.AccessToken, tokenData.ExpiresIn)
}
