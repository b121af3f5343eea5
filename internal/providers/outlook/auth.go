package outlook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

var graphScopes = []string{
	"https://graph.microsoft.com/Mail.ReadWrite",
	"offline_access",
}

// signIn returns a valid Graph access token, using the device-code flow for
// the first sign-in and a cached refresh token afterwards. The token cache
// lives at <configDir>/outlook_token.json.
func signIn(ctx context.Context, clientID, configDir string) (string, error) {
	cfg := &oauth2.Config{
		ClientID: clientID,
		Endpoint: microsoft.AzureADEndpoint("consumers"),
		Scopes:   graphScopes,
	}

	tokPath := filepath.Join(configDir, "outlook_token.json")
	if tok, err := readToken(tokPath); err == nil {
		// TokenSource refreshes transparently when the access token expired.
		fresh, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if fresh.AccessToken != tok.AccessToken {
				if err := saveToken(tokPath, fresh); err != nil {
					log.Printf("Error caching token: %v", err)
				}
			}
			return fresh.AccessToken, nil
		}
		log.Printf("Cached token unusable, signing in again: %v", err)
	}

	tok, err := deviceFlow(ctx, cfg)
	if err != nil {
		return "", err
	}
	if err := saveToken(tokPath, tok); err != nil {
		log.Printf("Error caching token: %v", err)
	}
	return tok.AccessToken, nil
}

// deviceFlow runs the OAuth device-code flow: print a code, wait for the user
// to enter it at microsoft.com/devicelogin.
func deviceFlow(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("start device sign-in: %w", err)
	}

	fmt.Printf("\nTo sign in, open %s and enter the code %s\n\n", resp.VerificationURI, resp.UserCode)

	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("complete device sign-in: %w", err)
	}
	return tok, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
