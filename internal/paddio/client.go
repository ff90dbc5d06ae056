package paddio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/config"
)

const (
	loginPath        = "/auth/token"
	mePath           = "/auth/me"
	broadcastPath    = "/notifications/send-broadcast"
	sendToUserPath   = "/notifications/send-to-user/%d"
	reservationsPath = "/pregame-turns/user/%d/reservations"
	userAgent        = "PaddioAdmin/1.0"

	// courtsScanLimit bounds the court scan behind ClubCourts.
	courtsScanLimit = 10000
)

// APIClient is the HTTP implementation of API.
type APIClient struct {
	httpClient *http.Client
	creds      CredentialProvider
	resources  config.Resources
	BaseURL    string
}

// NewClient creates a client for baseURL. creds is consulted on every request.
func NewClient(baseURL string, resources config.Resources, creds CredentialProvider) *APIClient {
	if creds == nil {
		creds = &MemoryCredentials{}
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		creds:      creds,
		resources:  resources,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Ensure APIClient implements the API interface.
var _ API = (*APIClient)(nil)

// Login exchanges credentials for a bearer token.
func (c *APIClient) Login(ctx context.Context, username, password string) (Token, error) {
	form := url.Values{
		"username":   {username},
		"password":   {password},
		"grant_type": {"password"},
	}
	var token Token
	err := c.do(ctx, http.MethodPost, loginPath, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &token)
	if err != nil {
		return Token{}, err
	}
	if token.AccessToken == "" {
		return Token{}, errors.New("login response carried no access token")
	}
	return token, nil
}

// Me fetches the profile of the account owning the current token.
func (c *APIClient) Me(ctx context.Context) (CurrentUser, error) {
	var user CurrentUser
	if err := c.doJSON(ctx, http.MethodGet, mePath, nil, nil, &user); err != nil {
		return CurrentUser{}, err
	}
	return user, nil
}

// FetchCollection issues a single GET for the whole collection, up to the
// resource's cap, and returns the unwrapped record array.
func (c *APIClient) FetchCollection(ctx context.Context, resource string) (json.RawMessage, error) {
	res, err := c.resource(resource)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	if res.Cap > 0 {
		query.Set("limit", strconv.Itoa(res.Cap))
	}

	var body json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, res.Path, query, nil, &body); err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", resource, err)
	}
	items, _ := Unwrap(resource, body, res)
	return items, nil
}

// ClubCourts fetches the courts of one club. The API has no per-club route,
// so every court is fetched and filtered by club.
func (c *APIClient) ClubCourts(ctx context.Context, clubID int64) ([]Court, error) {
	res, err := c.resource("courts")
	if err != nil {
		return nil, err
	}
	query := url.Values{"limit": {strconv.Itoa(courtsScanLimit)}}
	var body json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, res.Path, query, nil, &body); err != nil {
		return nil, fmt.Errorf("error fetching courts of club %d: %w", clubID, err)
	}
	items, _ := Unwrap("courts", body, res)
	var courts []Court
	for _, court := range decodeItems[Court]("courts", items) {
		if court.ClubID == clubID {
			courts = append(courts, court)
		}
	}
	if courts == nil {
		courts = []Court{}
	}
	return courts, nil
}

// UserReservations fetches the reservation history of one user.
func (c *APIClient) UserReservations(ctx context.Context, userID int64) (UserReservations, error) {
	var out UserReservations
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(reservationsPath, userID), nil, nil, &out); err != nil {
		return UserReservations{}, fmt.Errorf("error fetching reservations of user %d: %w", userID, err)
	}
	if out.Reservations == nil {
		out.Reservations = []PregameTurn{}
	}
	if out.UserID == 0 {
		out.UserID = userID
	}
	return out, nil
}

// Create posts a new record.
func (c *APIClient) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	res, err := c.resource(resource)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, res.Path, nil, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the record id.
func (c *APIClient) Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error) {
	res, err := c.resource(resource)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPut, itemPath(res, id), nil, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the record id.
func (c *APIClient) Delete(ctx context.Context, resource string, id int64) error {
	res, err := c.resource(resource)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, itemPath(res, id), nil, nil, nil)
}

// ToggleStatus flips the active flag of record id.
func (c *APIClient) ToggleStatus(ctx context.Context, resource string, id int64) (json.RawMessage, error) {
	res, err := c.resource(resource)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPatch, itemPath(res, id)+"/toggle-status", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendBroadcast sends a notification to every matching user.
func (c *APIClient) SendBroadcast(ctx context.Context, req BroadcastRequest) (NotificationResult, error) {
	query := url.Values{"only_active_users": {strconv.FormatBool(req.OnlyActive())}}
	if req.Category != nil && *req.Category != "" {
		query.Set("category", *req.Category)
	}
	var result NotificationResult
	if err := c.doJSON(ctx, http.MethodPost, broadcastPath, query, req.Notification, &result); err != nil {
		return NotificationResult{}, err
	}
	return result, nil
}

// SendToUser sends a notification to a single user.
func (c *APIClient) SendToUser(ctx context.Context, userID int64, n Notification) (NotificationResult, error) {
	var result NotificationResult
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf(sendToUserPath, userID), nil, n, &result); err != nil {
		return NotificationResult{}, err
	}
	return result, nil
}

func (c *APIClient) resource(name string) (config.Resource, error) {
	res, ok := c.resources[name]
	if !ok || res.Path == "" {
		return config.Resource{}, fmt.Errorf("unknown resource %q", name)
	}
	return res, nil
}

// itemPath is the path of record id. Collection paths may end in a slash;
// item paths never do.
func itemPath(res config.Resource, id int64) string {
	return fmt.Sprintf("%s/%d", strings.TrimRight(res.Path, "/"), id)
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

func encodeQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	return "?" + query.Encode()
}

func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.BaseURL + path + encodeQuery(query)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug("Requesting Paddio API", "method", method, "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(data)}
		if resp.StatusCode == http.StatusUnauthorized && path != loginPath {
			log.Warn("Paddio API rejected the session token, clearing credentials", "url", target)
			if err := c.creds.Clear(ctx); err != nil {
				log.Error("Failed to clear credentials", "error", err)
			}
		} else {
			log.Error("Received non-OK HTTP status from Paddio API", "status", resp.StatusCode, "url", target, "body", string(data))
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
