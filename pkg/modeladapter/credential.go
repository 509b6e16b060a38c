package modeladapter

import (
	"fmt"

	"github.com/germanamz/askllm/pkg/providers/provider"
)

// MissingCredentialError reports that the API key for a provider is not
// configured. Its message names the environment variable and how to set it.
type MissingCredentialError struct {
	Provider provider.Kind
	Env      string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s is not set: the %s tools are disabled until it is. "+
		"Export %s=<your key> in the server's environment or add it to the .env file (get a key at %s)",
		e.Env, e.Provider, e.Env, keyURL(e.Provider))
}

func keyURL(k provider.Kind) string {
	if k == provider.Gemini {
		return "https://aistudio.google.com/apikey"
	}
	return "https://openrouter.ai/keys"
}

// Credential looks up the API key for k through getenv. An empty value yields
// a *MissingCredentialError.
func Credential(k provider.Kind, getenv func(string) string) (string, error) {
	env := provider.CredentialEnv(k)

	key := getenv(env)
	if key == "" {
		return "", &MissingCredentialError{Provider: k, Env: env}
	}

	return key, nil
}
