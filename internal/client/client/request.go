package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

// Request describes one logical API call. It is never persisted and may be
// executed more than once.
type Request struct {
	// Path is relative to the API base URL and may carry a query string.
	Path string

	// Method defaults to GET.
	Method string

	// Body is marshalled as JSON, unless it is a *MultipartForm.
	Body any

	// SkipRefresh returns a 401 as is. Set for calls whose 401 is an answer
	// about the submitted credentials, not about the session.
	SkipRefresh bool
}

// Ambient is the per-call state injected as headers. Empty values are not
// sent.
type Ambient struct {
	AccessToken     string
	FingerprintHash string
	Language        models.Locale
}

// Executor performs exactly one HTTP exchange.
type Executor interface {
	Execute(ctx context.Context, req Request, amb Ambient) (json.RawMessage, error)
}

// Runner is what domain services call. The Pipeline is the production
// Runner; middlewares wrap it.
type Runner interface {
	Run(ctx context.Context, req Request) (json.RawMessage, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, req Request) (json.RawMessage, error)

func (f RunnerFunc) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	return f(ctx, req)
}

// MultipartForm is a request body sent as multipart/form-data. It is
// re-encoded for every execution.
type MultipartForm struct {
	Fields map[string]string
	Files  []FormFile
}

type FormFile struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (m *MultipartForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.FileName)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// DecodeData unmarshals raw into v, unwrapping a {"data": ...} envelope
// when present. Decoding problems are returned as KindParse failures.
func DecodeData(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return parseFailure(io.ErrUnexpectedEOF)
	}

	if payload, ok := unwrapEnvelope(raw); ok {
		raw = payload
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return parseFailure(err)
	}
	return nil
}

func unwrapEnvelope(raw json.RawMessage) (json.RawMessage, bool) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	data, ok := env["data"]
	if !ok {
		return nil, false
	}
	return data, true
}
