package render

import (
	"errors"
	"net/http"
	"time"
)

const defaultRetryMax = 2

// retryTransport gövdesiz istekleri ağ hatalarında sınırlı sayıda yeniden dener.
// Önizleme render'ı yan etkisizdir; bu yüzden POST de yeniden denenebilir.
type retryTransport struct {
	Base     http.RoundTripper
	RetryMax int
	Methods  map[string]bool
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	canRetry := t.Methods[req.Method] && (req.Body == nil || req.Body == http.NoBody)
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		resp, err := base.RoundTrip(req.Clone(req.Context()))
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func newHTTPClient(timeout time.Duration) *http.Client {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{
		Transport: &retryTransport{
			Base:     base,
			RetryMax: defaultRetryMax,
			Methods: map[string]bool{
				http.MethodGet:  true,
				http.MethodHead: true,
				http.MethodPost: true,
			},
		},
		Timeout: timeout,
	}
}
