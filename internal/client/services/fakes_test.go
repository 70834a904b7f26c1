package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/session"
)

// fakeRunner answers from routes keyed by "METHOD path" and records every
// request.
type fakeRunner struct {
	mu       sync.Mutex
	requests []client.Request
	routes   map[string]func(req client.Request) (json.RawMessage, error)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{routes: map[string]func(client.Request) (json.RawMessage, error){}}
}

func (f *fakeRunner) on(method, path string, fn func(req client.Request) (json.RawMessage, error)) {
	f.routes[method+" "+path] = fn
}

func (f *fakeRunner) reply(method, path, body string) {
	f.on(method, path, func(client.Request) (json.RawMessage, error) {
		if body == "" {
			return nil, nil
		}
		return json.RawMessage(body), nil
	})
}

func (f *fakeRunner) fail(method, path string, err error) {
	f.on(method, path, func(client.Request) (json.RawMessage, error) { return nil, err })
}

func (f *fakeRunner) Run(_ context.Context, req client.Request) (json.RawMessage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	method := req.Method
	if method == "" {
		method = "GET"
	}
	fn, ok := f.routes[method+" "+req.Path]
	if !ok {
		return nil, &client.Failure{Kind: client.KindHTTP, Status: 404}
	}
	return fn(req)
}

func (f *fakeRunner) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// fakeSessions keeps the session in memory.
type fakeSessions struct {
	data       session.Data
	loadErr    error
	persistErr error
	clears     int
}

func (f *fakeSessions) Load(context.Context) (session.Data, error) {
	return f.data, f.loadErr
}

func (f *fakeSessions) Persist(_ context.Context, p session.Partial) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	if p.AccessToken != nil {
		f.data.AccessToken = *p.AccessToken
	}
	if p.RefreshToken != nil {
		f.data.RefreshToken = *p.RefreshToken
	}
	if p.FingerprintHash != nil {
		f.data.FingerprintHash = *p.FingerprintHash
	}
	if p.Language != nil {
		f.data.Language = *p.Language
	}
	return nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.clears++
	f.data = session.Data{}
	return nil
}
