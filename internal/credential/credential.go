// Package credential parses the storage provider's service-account document.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenURI is used when the document does not name a token endpoint.
const DefaultTokenURI = "https://oauth2.googleapis.com/token"

// ErrMissing is returned when no credential value was supplied.
var ErrMissing = errors.New("service credential is not set")

// ErrMalformed is returned when the credential value cannot be used.
var ErrMalformed = errors.New("service credential is malformed")

// ServiceAccount is a parsed service-account key.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`

	doc []byte
}

// Parse decodes a service-account document as supplied through the
// environment. Escaped newline sequences in the private key are turned into
// real newlines and the key is checked to be a valid RSA PEM block.
func Parse(value string) (*ServiceAccount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrMissing
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrMalformed, err)
	}
	var sa ServiceAccount
	if err := json.Unmarshal([]byte(value), &sa); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrMalformed, err)
	}

	if sa.Type != "" && sa.Type != "service_account" {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrMalformed, sa.Type)
	}
	if sa.ClientEmail == "" {
		return nil, fmt.Errorf("%w: client_email is empty", ErrMalformed)
	}
	if sa.PrivateKey == "" {
		return nil, fmt.Errorf("%w: private_key is empty", ErrMalformed)
	}
	if sa.TokenURI == "" {
		sa.TokenURI = DefaultTokenURI
	}

	sa.PrivateKey = NormalizeNewlines(sa.PrivateKey)
	if _, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey)); err != nil {
		return nil, fmt.Errorf("%w: private key: %v", ErrMalformed, err)
	}

	key, err := json.Marshal(sa.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("encode private key: %w", err)
	}
	fields["private_key"] = key
	if _, ok := fields["type"]; !ok {
		fields["type"] = json.RawMessage(`"service_account"`)
		sa.Type = "service_account"
	}
	uri, err := json.Marshal(sa.TokenURI)
	if err != nil {
		return nil, fmt.Errorf("encode token uri: %w", err)
	}
	fields["token_uri"] = uri

	sa.doc, err = json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode credential: %w", err)
	}
	return &sa, nil
}

// JSON returns the normalized document, suitable for the provider SDK.
func (sa *ServiceAccount) JSON() []byte {
	return sa.doc
}

// NormalizeNewlines replaces literal "\n" escape sequences with newlines.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
