// Package client talks to the REST collaborators of the portal: the
// maintenance and handover-receipt backends, the user and supplier
// directories, and the asset registry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/logger"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the client shared by all collaborators.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// base holds what every collaborator client needs.
type base struct {
	service string
	baseURL string
	http    Doer
}

func newBase(service, baseURL string, doer Doer) base {
	if doer == nil {
		doer = http.DefaultClient
	}
	return base{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
	}
}

// getList fetches a collection. A 404 means there is nothing to list.
func (b *base) getList(ctx context.Context, token, path string, out interface{}) error {
	env, err := b.do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := env.DecodeList(out); err != nil {
		return b.decodeError(path, err)
	}
	return nil
}

// getOne fetches a single record into out.
func (b *base) getOne(ctx context.Context, token, path string, out interface{}) error {
	env, err := b.do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	found, err := env.DecodeOne(out)
	if err != nil {
		return b.decodeError(path, err)
	}
	if !found {
		return &apperr.BackendError{Service: b.service, StatusCode: http.StatusNotFound, Message: apperr.MessageForStatus(http.StatusNotFound)}
	}
	return nil
}

// send issues a mutation and decodes the answer into out when there is one.
// It reports whether out was filled.
func (b *base) send(ctx context.Context, token, method, path string, body, out interface{}) (bool, error) {
	env, err := b.do(ctx, token, method, path, body)
	if err != nil {
		return false, err
	}
	if out == nil {
		return false, nil
	}
	found, err := env.DecodeOne(out)
	if err != nil {
		return false, b.decodeError(path, err)
	}
	return found, nil
}

func (b *base) count(ctx context.Context, token, path string) (int64, error) {
	env, err := b.do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	n, err := env.DecodeCount()
	if err != nil {
		return 0, b.decodeError(path, err)
	}
	return n, nil
}

func (b *base) do(ctx context.Context, token, method, path string, body interface{}) (Envelope, error) {
	url := b.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("%s: encode request: %w", b.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: build request: %w", b.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	entry := logger.ExternalCall(b.service, method, url)
	started := time.Now()
	resp, err := b.http.Do(req)
	if err != nil {
		logger.ExternalResult(entry, 0, started, err)
		return Envelope{}, &apperr.BackendError{
			Service:    b.service,
			StatusCode: http.StatusBadGateway,
			Message:    "the service is unreachable, try again later",
		}
	}
	defer resp.Body.Close()
	logger.ExternalResult(entry, resp.StatusCode, started, nil)

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Envelope{}, b.statusError(resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: read response: %w", b.service, err)
	}
	env, err := ParseEnvelope(raw)
	if err != nil {
		return Envelope{}, b.decodeError(path, err)
	}
	return env, nil
}

// errorBody covers the error shapes the backends answer with.
type errorBody struct {
	Message     string            `json:"message"`
	Error       string            `json:"error"`
	Errors      map[string]string `json:"errors"`
	FieldErrors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fieldErrors"`
}

func (b *base) statusError(status int, raw []byte) *apperr.BackendError {
	be := &apperr.BackendError{
		Service:    b.service,
		StatusCode: status,
		Message:    apperr.MessageForStatus(status),
	}

	var parsed errorBody
	if len(raw) == 0 || json.Unmarshal(raw, &parsed) != nil {
		return be
	}
	// Server-side failure details are logged, never shown.
	if status >= 500 {
		log.WithFields(log.Fields{
			"service": b.service,
			"status":  status,
			"detail":  firstNonEmpty(parsed.Message, parsed.Error),
		}).Error("backend internal error")
		return be
	}
	if msg := firstNonEmpty(parsed.Message, parsed.Error); msg != "" {
		be.Message = msg
	}
	if len(parsed.Errors) > 0 || len(parsed.FieldErrors) > 0 {
		be.FieldErrors = make(map[string]string, len(parsed.Errors)+len(parsed.FieldErrors))
		for field, msg := range parsed.Errors {
			be.FieldErrors[field] = msg
		}
		for _, fe := range parsed.FieldErrors {
			be.FieldErrors[fe.Field] = fe.Message
		}
	}
	return be
}

func (b *base) decodeError(path string, err error) error {
	log.WithFields(log.Fields{
		"service": b.service,
		"path":    path,
	}).WithError(err).Error("unexpected response shape")
	return &apperr.BackendError{
		Service:    b.service,
		StatusCode: http.StatusBadGateway,
		Message:    "unexpected response from server",
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
