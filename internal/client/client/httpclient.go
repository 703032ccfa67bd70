package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatauth/internal/client/models"
	"github.com/dmitrijs2005/chatauth/internal/common"
)

const (
	userPath    = "/api/user/"
	loginPath   = "/api/user/login"
	profilePath = "/api/user/profile"
	healthPath  = "/healthz"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out models.Session
	if err := c.doJSON(ctx, http.MethodPost, userPath, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out models.Session
	if err := c.doJSON(ctx, http.MethodPost, loginPath, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*models.UserInfo, error) {
	var out models.UserInfo
	if err := c.doJSON(ctx, http.MethodGet, profilePath, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, token, search string) ([]models.UserInfo, error) {
	path := userPath
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	out := make([]models.UserInfo, 0)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile sends JSON for a text-only change and multipart/form-data
// when a picture is attached.
func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.UserInfo, error) {
	var out models.UserInfo

	if !upd.HasImage() {
		if err := c.doJSON(ctx, http.MethodPut, profilePath, token, upd, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", upd.Name)
	_ = mw.WriteField("email", upd.Email)
	fw, err := mw.CreateFormFile("pic", upd.Image.Name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(upd.Image.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	if err := c.do(ctx, http.MethodPut, profilePath, token, mw.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, healthPath, "", "", nil, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, contentType, body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
