package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

const defaultTimeout = 15 * time.Second

// HTTPExecutor sends a Request to the API over HTTP. It knows nothing about
// authentication semantics and never retries.
type HTTPExecutor struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// NewHTTPExecutor returns an executor rooted at baseURL. A nil httpClient
// gets a client with a 15s timeout.
func NewHTTPExecutor(baseURL string, httpClient *http.Client, log logging.Logger) *HTTPExecutor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPExecutor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// Execute performs req with the headers derived from amb.
func (e *HTTPExecutor) Execute(ctx context.Context, req Request, amb Ambient) (json.RawMessage, error) {
	if req.Path == "" {
		return nil, transportFailure(ErrEmptyPath)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, transportFailure(fmt.Errorf("encode request body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, e.url(req.Path), body)
	if err != nil {
		return nil, transportFailure(err)
	}

	setHeaders(httpReq.Header, amb, contentType)

	start := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		e.log.Debug(ctx, "request failed", "method", method, "path", req.Path, "error", err)
		return nil, transportFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(fmt.Errorf("read response body: %w", err))
	}

	e.log.Debug(ctx, "request completed",
		"method", method, "path", req.Path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpFailure(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, parseFailure(fmt.Errorf("response of %s %s is not valid JSON", method, req.Path))
	}

	return json.RawMessage(raw), nil
}

func (e *HTTPExecutor) url(path string) string {
	return e.baseURL + "/" + strings.TrimLeft(path, "/")
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, common.ContentTypeJSON, nil
	case *MultipartForm:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), common.ContentTypeJSON, nil
	}
}

func setHeaders(h http.Header, amb Ambient, contentType string) {
	h.Set(common.HeaderContentType, contentType)
	h.Set(common.HeaderAccept, common.ContentTypeJSON)
	h.Set(common.HeaderAcceptLanguage, string(amb.Language.OrDefault()))

	if amb.FingerprintHash != "" {
		h.Set(common.HeaderFingerprint, amb.FingerprintHash)
	}
	if amb.AccessToken != "" {
		h.Set(common.HeaderAuthorization, common.BearerScheme+amb.AccessToken)
	}
}
