package sheets

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSheetsURL = "https://sheets.googleapis.com"
	defaultTokenURL  = "https://oauth2.googleapis.com/token"
	jwtBearerGrant   = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	sheetsScope      = "https://www.googleapis.com/auth/spreadsheets.readonly https://www.googleapis.com/auth/drive.readonly"
	tokenLeeway      = time.Minute
)

// Credentials is the subset of a Google service-account key file we need.
type Credentials struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// LoadCredentials reads service-account credentials, preferring inline JSON
// over the file at path.
func LoadCredentials(inlineJSON, path string) (*Credentials, error) {
	var data []byte
	switch {
	case strings.TrimSpace(inlineJSON) != "":
		data = []byte(inlineJSON)
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		data = b
	default:
		return nil, errors.New("no credentials provided")
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("credentials missing client_email or private_key")
	}
	if creds.TokenURI == "" {
		creds.TokenURI = defaultTokenURL
	}
	return &creds, nil
}

// GoogleSource reads worksheets through the Sheets REST API using a
// service-account JWT bearer grant.
type GoogleSource struct {
	creds   *Credentials
	key     *rsa.PrivateKey
	baseURL string
	client  *http.Client
	now     func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

type GoogleOption func(*GoogleSource)

func WithBaseURL(u string) GoogleOption {
	return func(s *GoogleSource) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(c *http.Client) GoogleOption {
	return func(s *GoogleSource) {
		s.client = c
	}
}

func NewGoogleSource(creds *Credentials, opts ...GoogleOption) (*GoogleSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	s := &GoogleSource{
		creds:   creds,
		key:     key,
		baseURL: defaultSheetsURL,
		client:  &http.Client{Timeout: DefaultFetchTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type valuesResponse struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

func (s *GoogleSource) Fetch(ctx context.Context, sheetID, worksheet string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?majorDimension=ROWS",
		s.baseURL, url.PathEscape(sheetID), url.PathEscape(worksheet))

	var res valuesResponse
	if err := s.getJSON(ctx, endpoint, &res); err != nil {
		return nil, fmt.Errorf("get values %s: %w", worksheet, err)
	}
	return res.Values, nil
}

type spreadsheetResponse struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

func (s *GoogleSource) Worksheets(ctx context.Context, sheetID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=%s",
		s.baseURL, url.PathEscape(sheetID), url.QueryEscape("sheets.properties.title"))

	var res spreadsheetResponse
	if err := s.getJSON(ctx, endpoint, &res); err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(res.Sheets))
	for _, sh := range res.Sheets {
		titles = append(titles, sh.Properties.Title)
	}
	return titles, nil
}

func (s *GoogleSource) getJSON(ctx context.Context, endpoint string, v any) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// token returns a cached access token, exchanging a freshly signed
// assertion when the cached one is missing or about to expire.
func (s *GoogleSource) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.accessToken != "" && now.Add(tokenLeeway).Before(s.expiresAt) {
		return s.accessToken, nil
	}

	assertion, err := s.signAssertion(now)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.creds.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("token exchange: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("token exchange: empty access token")
	}

	s.accessToken = tr.AccessToken
	s.expiresAt = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	return s.accessToken, nil
}

func (s *GoogleSource) signAssertion(now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   s.creds.ClientEmail,
		"scope": sheetsScope,
		"aud":   s.creds.TokenURI,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(time.Hour)),
	})
	if s.creds.PrivateKeyID != "" {
		token.Header["kid"] = s.creds.PrivateKeyID
	}

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}
