package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"pedidos/internal/config"
	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderCSRF      = "X-CSRFToken"

	csrfCookieName = "csrftoken"
	refreshPath    = "/api/token/refresh/"
)

// Client はリモートAPIへのリクエストをまとめる。
//   - Bearerトークンと X-CSRFToken を付ける
//   - 401のときは1回だけトークンを更新して再送する
type Client struct {
	baseURL    *url.URL
	base       string
	httpClient *http.Client
	identities repo.IdentityRepository
	metrics    *Metrics
	logger     *log.Logger

	refreshMu sync.Mutex

	hookMu        sync.RWMutex
	onAuthExpired func(ctx context.Context)
	onRefreshed   func(ctx context.Context, identity model.Identity)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API at cfg.BaseURL.
// The persisted identity is read on every request.
func NewClient(cfg config.APIConfig, identities repo.IdentityRepository, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url: %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL: base,
		base:    base.String(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		identities: identities,
		logger:     log.New("api"),
	}
	for _, opt := range opts {
		opt(c)
	}

	//csrftoken cookie を保持するため jar は必須
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.httpClient.Jar = jar
	}

	if cfg.CSRFToken != "" {
		c.SetCSRFToken(cfg.CSRFToken)
	}
	return c, nil
}

// OnAuthExpired はトークン更新に失敗したときに呼ばれる（ログイン画面へ戻す）
func (c *Client) OnAuthExpired(fn func(ctx context.Context)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onAuthExpired = fn
}

// OnTokenRefreshed は新しいアクセストークンを保存した後に呼ばれる
func (c *Client) OnTokenRefreshed(fn func(ctx context.Context, identity model.Identity)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onRefreshed = fn
}

// SetCSRFToken は csrftoken cookie を設定する
func (c *Client) SetCSRFToken(token string) {
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  csrfCookieName,
		Value: token,
		Path:  "/",
	}})
}

func (c *Client) csrfToken() string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name != csrfCookieName {
			continue
		}
		if v, err := url.QueryUnescape(ck.Value); err == nil {
			return v
		}
		return ck.Value
	}
	return ""
}

// 1回の論理リクエスト。再送してもrequestIDは同じ
type request struct {
	method    string
	path      string
	payload   []byte
	requestID string
	public    bool
	retried   bool
	bearer    string // 直近の送信で使ったトークン
}

// Do sends an authenticated JSON request and decodes a 2xx body into out.
// A non-2xx response is returned as *Error.
func (c *Client) Do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	return c.do(ctx, method, path, body, out, false)
}

// DoPublic はトークンを付けず、401でも更新しない（ログイン用）
func (c *Client) DoPublic(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	return c.do(ctx, method, path, body, out, true)
}

func (c *Client) do(ctx context.Context, method string, path string, body interface{}, out interface{}, public bool) error {
	r := &request{
		method:    method,
		path:      path,
		requestID: uuid.NewString(),
		public:    public,
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r.payload = payload
	}

	status, data, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	//401は1回だけ更新して再送
	if status == http.StatusUnauthorized && !r.public && !r.retried {
		r.retried = true
		if c.refresh(ctx, r.bearer) {
			status, data, err = c.send(ctx, r)
			if err != nil {
				return err
			}
		}
	}

	return decodeResponse(status, data, out)
}

func (c *Client) send(ctx context.Context, r *request) (int, []byte, error) {
	var body io.Reader
	if r.payload != nil {
		body = bytes.NewReader(r.payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.base+r.path, body)
	if err != nil {
		return 0, nil, err
	}
	c.setHeaders(ctx, req, r)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(r.method, "error", time.Since(start))
		c.logger.Errorf("%s %s failed: %v", r.method, r.path, err)
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.metrics.observe(r.method, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	c.logger.Debugf("%s %s -> %d (request_id=%s retried=%t)", r.method, r.path, resp.StatusCode, r.requestID, r.retried)
	return resp.StatusCode, data, nil
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, r *request) {
	req.Header.Set("Accept", "application/json")
	if r.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, r.requestID)
	req.Header.Set(HeaderCSRF, c.csrfToken())

	r.bearer = ""
	if r.public {
		return
	}
	identity, err := c.identities.Load(ctx)
	if err != nil || identity.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+identity.Token)
	r.bearer = identity.Token
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// refresh は保存済みのリフレッシュトークンでアクセストークンを取り直す。
// used は401になったリクエストが使ったトークン。
func (c *Client) refresh(ctx context.Context, used string) bool {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	identity, err := c.identities.Load(ctx)
	if err != nil {
		//未ログイン
		return false
	}

	//他のリクエストが先に更新済み
	if used != "" && identity.Token != "" && identity.Token != used {
		return true
	}

	if identity.RefreshToken == "" {
		c.metrics.refresh("failure")
		c.expire(ctx, "no refresh token")
		return false
	}

	payload, err := json.Marshal(refreshRequest{Refresh: identity.RefreshToken})
	if err != nil {
		return false
	}
	r := &request{
		method:    http.MethodPost,
		path:      refreshPath,
		payload:   payload,
		requestID: uuid.NewString(),
		public:    true,
	}

	status, data, err := c.send(ctx, r)
	if err != nil {
		//キャンセルはログアウト扱いにしない
		if ctx.Err() != nil {
			return false
		}
		c.metrics.refresh("failure")
		c.expire(ctx, err.Error())
		return false
	}

	var out refreshResponse
	if status < 200 || status >= 300 {
		c.metrics.refresh("failure")
		c.expire(ctx, newError(status, data).Error())
		return false
	}
	if err := json.Unmarshal(data, &out); err != nil || out.Access == "" {
		c.metrics.refresh("failure")
		c.expire(ctx, "refresh response without access token")
		return false
	}

	identity.Token = out.Access
	if out.Refresh != "" {
		identity.RefreshToken = out.Refresh
	}
	if err := c.identities.Save(ctx, identity); err != nil {
		c.metrics.refresh("failure")
		c.logger.Errorf("save refreshed token: %v", err)
		return false
	}

	c.metrics.refresh("success")
	c.logger.Infof("access token refreshed for %s", identity.Username)

	c.hookMu.RLock()
	fn := c.onRefreshed
	c.hookMu.RUnlock()
	if fn != nil {
		fn(ctx, identity)
	}
	return true
}

func (c *Client) expire(ctx context.Context, reason string) {
	c.logger.Warnf("token refresh failed, session expired: %s", reason)

	c.hookMu.RLock()
	fn := c.onAuthExpired
	c.hookMu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

func decodeResponse(status int, data []byte, out interface{}) error {
	if status < 200 || status >= 300 {
		return newError(status, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// IsUnauthorized は401かどうか
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsTransport は通信エラーかどうか
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
