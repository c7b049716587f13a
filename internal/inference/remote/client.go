package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
	initialBackoff   = 250 * time.Millisecond
)

type Options struct {
	BaseURL string
	APIKey  string

	QGModel string
	QAModel string

	Timeout    time.Duration
	MaxRetries int

	HTTPClient *http.Client
}

// Client calls a hosted inference API for question generation and question
// answering. Every call is bounded by the configured timeout.
type Client struct {
	baseURL string
	apiKey  string
	qgModel string
	qaModel string

	timeout    time.Duration
	maxRetries int

	httpClient *http.Client
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse remote base url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		qgModel:    strings.TrimSpace(opts.QGModel),
		qaModel:    strings.TrimSpace(opts.QAModel),
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: hc,
	}, nil
}

// Configured reports whether an API token is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GenerateQuestions runs the question-generation model over the notes and
// returns its raw text.
func (c *Client) GenerateQuestions(ctx context.Context, notes string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if c.qgModel == "" {
		return "", errors.New("remote question generation model not set")
	}

	raw, err := c.doJSON(ctx, c.qgModel, generateRequest{
		Inputs:  notes,
		Options: requestOptions{WaitForModel: true},
	})
	if err != nil {
		return "", err
	}
	text, err := decodeGeneratedText(raw)
	if err != nil {
		return "", fmt.Errorf("decode generated text: %w", err)
	}
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// Answer runs the question-answering model with the notes as context.
func (c *Client) Answer(ctx context.Context, question, passage string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if c.qaModel == "" {
		return "", errors.New("remote question answering model not set")
	}

	raw, err := c.doJSON(ctx, c.qaModel, answerRequest{
		Inputs:  answerInputs{Question: question, Context: passage},
		Options: requestOptions{WaitForModel: true},
	})
	if err != nil {
		return "", err
	}
	answer, err := decodeAnswer(raw)
	if err != nil {
		return "", fmt.Errorf("decode answer: %w", err)
	}
	if answer == "" {
		return "", ErrEmptyOutput
	}
	return answer, nil
}

func (c *Client) modelURL(model string) string {
	return c.baseURL + "/" + strings.TrimLeft(model, "/")
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// doJSON posts body to the model endpoint and returns the raw 2xx response.
// Retries cover transport errors and temporary HTTP failures, all within the
// single timeout budget.
func (c *Client) doJSON(ctx context.Context, model string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL(model), bytes.NewReader(buf.Bytes()))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				return nil, readErr
			}
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			}
			lastErr = parseHTTPError(resp.StatusCode, raw)
			var herr *HTTPError
			if errors.As(lastErr, &herr) && !herr.Temporary() {
				return nil, lastErr
			}
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	if lastErr == nil {
		lastErr = errors.New("request failed")
	}
	return nil, lastErr
}
