package Scania

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

const (
	redisTokenKey        = "scania_api_token"
	redisRefreshTokenKey = "scania_refresh_token"

	refreshTokenTTL = 24 * time.Hour
)

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService owns the challenge/response token dance against the Scania auth
// API and keeps the resulting tokens in Redis so concurrent report runs and
// the cron refresher share one token.
type AuthService struct {
	baseURL   string
	clientID  string
	secretKey string
	tokenTTL  time.Duration
	rdb       *redis.Client
	client    *http.Client
}

func NewAuthService(baseURL, clientID, secretKey string, tokenExpireSeconds int, rdb *redis.Client) *AuthService {
	return &AuthService{
		baseURL:   baseURL,
		clientID:  clientID,
		secretKey: secretKey,
		tokenTTL:  time.Duration(tokenExpireSeconds) * time.Second,
		rdb:       rdb,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// GetToken returns the cached access token, fetching a fresh one when the
// cache is empty or expired.
func (s *AuthService) GetToken(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, redisTokenKey).Result()
	if err == nil && token != "" {
		return token, nil
	}
	return s.FetchNewToken(ctx)
}

// FetchNewToken performs the full challenge/response handshake.
func (s *AuthService) FetchNewToken(ctx context.Context) (string, error) {
	challenge, err := s.getChallenge(ctx)
	if err != nil {
		return "", err
	}
	response, err := CreateChallengeResponse(s.secretKey, challenge)
	if err != nil {
		return "", err
	}
	tokens, err := s.postForm(ctx, "/auth/response2token", url.Values{
		"clientId": {s.clientID},
		"Response": {response},
	})
	if err != nil {
		return "", err
	}
	if err := s.saveTokens(ctx, tokens); err != nil {
		return "", err
	}
	return tokens.Token, nil
}

// RefreshToken exchanges the stored refresh token for a new pair, falling
// back to a fresh handshake when the refresh token is missing or rejected.
func (s *AuthService) RefreshToken(ctx context.Context) (string, error) {
	refresh, err := s.rdb.Get(ctx, redisRefreshTokenKey).Result()
	if err != nil || refresh == "" {
		return s.FetchNewToken(ctx)
	}
	tokens, err := s.postForm(ctx, "/auth/refreshtoken", url.Values{
		"clientId":     {s.clientID},
		"RefreshToken": {refresh},
	})
	if err != nil {
		return s.FetchNewToken(ctx)
	}
	if err := s.saveTokens(ctx, tokens); err != nil {
		return "", err
	}
	return tokens.Token, nil
}

func (s *AuthService) getChallenge(ctx context.Context) (string, error) {
	body, err := s.postFormRaw(ctx, "/auth/clientid2challenge", url.Values{
		"clientId": {s.clientID},
	})
	if err != nil {
		return "", err
	}
	var payload struct {
		Challenge string `json:"challenge"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("parsing challenge response: %w", err)
	}
	return payload.Challenge, nil
}

func (s *AuthService) postForm(ctx context.Context, path string, data url.Values) (*tokenResponse, error) {
	body, err := s.postFormRaw(ctx, path, data)
	if err != nil {
		return nil, err
	}
	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}
	return &tokens, nil
}

func (s *AuthService) postFormRaw(ctx context.Context, path string, data url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth request %s failed with status %d", path, resp.StatusCode)
	}
	return body, nil
}

func (s *AuthService) saveTokens(ctx context.Context, tokens *tokenResponse) error {
	if err := s.rdb.Set(ctx, redisTokenKey, tokens.Token, s.tokenTTL).Err(); err != nil {
		return fmt.Errorf("caching access token: %w", err)
	}
	if err := s.rdb.Set(ctx, redisRefreshTokenKey, tokens.RefreshToken, refreshTokenTTL).Err(); err != nil {
		return fmt.Errorf("caching refresh token: %w", err)
	}
	return nil
}
