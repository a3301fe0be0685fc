package services

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "uiloop"

// KeyringService resolves provider API keys: environment first, then the OS
// keyring. A missing key returns empty rather than an error; authentication
// fails loudly at the first API call instead.
type KeyringService interface {
	APIKey(provider string) string
	SetAPIKey(provider, key string) error
	DeleteAPIKey(provider string) error
}

type keyringService struct{}

func NewKeyringService() KeyringService {
	return &keyringService{}
}

func envVarFor(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

func (s *keyringService) APIKey(provider string) string {
	if envVar := envVarFor(provider); envVar != "" {
		if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
			return key
		}
	}
	key, err := keyring.Get(serviceName, provider)
	if err != nil {
		return ""
	}
	return key
}

func (s *keyringService) SetAPIKey(provider, key string) error {
	return keyring.Set(serviceName, provider, key)
}

func (s *keyringService) DeleteAPIKey(provider string) error {
	return keyring.Delete(serviceName, provider)
}
