package internal

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/url"
	"time"

	"google.golang.org/genai"
)

const (
	geminiModel = "gemini-2.5-flash"

	// a single reply is capped at 400 tokens, this is generous
	geminiTimeout = 30 * time.Second
)

// Generator is the model API the relay talks to.
type Generator interface {
	Configured() bool
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	// GenerateContentStream yields partial replies. The request is sent on
	// the first pull.
	GenerateContentStream(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient returns an unconfigured client when apiKey is empty so the
// service can start and report the problem per request.
func NewGeminiClient(ctx context.Context, apiKey, baseURL, model string) (*GeminiClient, error) {
	if model == "" {
		model = geminiModel
	}
	if apiKey == "" {
		return &GeminiClient{model: model}, nil
	}

	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Configured() bool {
	return c.client != nil
}

func (c *GeminiClient) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, wrapGeminiError(err)
	}
	return resp, nil
}

func (c *GeminiClient) GenerateContentStream(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, config) {
			if err != nil {
				yield(nil, wrapGeminiError(err))
				return
			}
			if !yield(resp, nil) {
				return
			}
		}
	}
}

// wrapGeminiError sorts SDK errors into vendor, transport and parse
// failures.
func wrapGeminiError(err error) error {
	var (
		apiErr    genai.APIError
		apiErrPtr *genai.APIError
		urlErr    *url.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &apiErr):
		return &vendorError{Status: apiErr.Code, Body: apiErr.Message}
	case errors.As(err, &apiErrPtr):
		return &vendorError{Status: apiErrPtr.Code, Body: apiErrPtr.Message}
	case errors.As(err, &urlErr):
		return &transportError{err: err}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return &parseError{err: err}
	default:
		return err
	}
}
