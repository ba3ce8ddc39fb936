package Scania

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// The Scania auth API hands out a base64url challenge that must be answered
// with HMAC-SHA256 over the raw bytes, keyed with the account secret.

func base64urlEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func base64urlDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

// CreateChallengeResponse answers an auth challenge with the secret key.
// Both inputs are base64url strings as delivered by the API.
func CreateChallengeResponse(secretKey, challenge string) (string, error) {
	key, err := base64urlDecode(secretKey)
	if err != nil {
		return "", fmt.Errorf("decoding secret key: %w", err)
	}
	ch, err := base64urlDecode(challenge)
	if err != nil {
		return "", fmt.Errorf("decoding challenge: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(ch)
	return base64urlEncode(mac.Sum(nil)), nil
}
