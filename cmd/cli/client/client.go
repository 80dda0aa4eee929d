// Package client wraps the authenticated HTTP calls shared by the CLI
// subcommands.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bl4ckarch/assetguard/cmd/cli/config"
)

// ErrNotLoggedIn is returned when no stored token is found.
var ErrNotLoggedIn = errors.New("not logged in, run `assetguard login` first")

// Do sends an authenticated request to the API and decodes the JSON response
// into out when out is non-nil. payload, when non-nil, is sent as JSON.
func Do(method, path string, payload, out any) error {
	token, err := config.ReadToken()
	if err != nil {
		return ErrNotLoggedIn
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}

	if out != nil && len(raw) > 0 {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// Login posts credentials without a token and returns the issued JWT.
func Login(username, password string) (string, error) {
	data, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(config.APIURL()+"/auth/login", "application/json", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: status %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("login succeeded but no token returned")
	}
	return out.Token, nil
}
