package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/mlihgenel/audiotrim-cli/internal/logger"
)

const (
	previewPath      = "/api/v1/alerts/preview-audio"
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 2.0
	maxErrorBody     = 4 << 10
)

// HTTPOptions uzak render servisi istemcisinin ayarlarıdır.
type HTTPOptions struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RateLimit saniyedeki en fazla istek sayısıdır; 0 varsayılanı kullanır.
	RateLimit float64
	Client    *http.Client
	Logger    *log.Logger
}

// HTTPClient ses önizlemesini sunucu tarafında render eden servise istek atar.
type HTTPClient struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     *log.Logger
}

// NewHTTPClient ayarları doğrulayıp istemciyi oluşturur.
func NewHTTPClient(opts HTTPOptions) (*HTTPClient, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("render_url boş olamaz")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("geçersiz render_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("render_url http veya https olmalı: %s", raw)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = newHTTPClient(timeout)
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}

	return &HTTPClient{
		baseURL: u,
		token:   strings.TrimSpace(opts.Token),
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		log:     l,
	}, nil
}

// PreviewURL isteğin gönderileceği adresi üretir. End yoksa end_time parametresi eklenmez.
func (c *HTTPClient) PreviewURL(req Request) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + previewPath
	q := url.Values{}
	q.Set("file_url", req.Source)
	q.Set("start_time", formatSeconds(req.Start))
	if req.End != nil {
		q.Set("end_time", formatSeconds(*req.End))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// RenderPreview render servisini çağırır ve ses akışını döner. Çağıran
// taraf dönen akışı kapatmalıdır.
func (c *HTTPClient) RenderPreview(ctx context.Context, req Request) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.PreviewURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("istek oluşturulamadı: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg, audio/*")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render isteği başarısız: %w", err)
	}
	c.log.Debug("render response", "id", req.ID, "status", resp.StatusCode, "took", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	br := bufio.NewReader(resp.Body)
	if _, err := br.Peek(1); err != nil {
		resp.Body.Close()
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPreview
		}
		return nil, fmt.Errorf("render yanıtı okunamadı: %w", err)
	}
	return &bodyReader{Reader: br, closer: resp.Body}, nil
}

type bodyReader struct {
	*bufio.Reader
	closer io.Closer
}

func (b *bodyReader) Close() error {
	return b.closer.Close()
}
