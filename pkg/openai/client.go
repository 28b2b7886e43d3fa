package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds the OpenAI client configuration, loaded once at startup.
type Config struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	SpeechModel     string
	TranscribeModel string
	Voice           string
	Timeout         time.Duration
	MaxRetries      int
}

// Client is a thin HTTP client for the OpenAI API with retry and
// context-aware backoff.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type imageContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// DetectLanguage asks the chat model for the ISO code of the text's primary
// language. Returns "unknown" when the model cannot tell.
func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	req := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: "Detect the primary language of the following text and return only the ISO code (e.g., 'en', 'he'). If unknown, return 'unknown'."},
			{Role: "user", Content: text},
		},
	}

	content, err := c.chatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Translate translates text between the two given languages.
func (c *Client) Translate(ctx context.Context, sourceLang, targetLang, text string) (string, error) {
	req := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf("Translate from %s to %s. Use transliteration if needed.", sourceLang, targetLang)},
			{Role: "user", Content: text},
		},
	}

	content, err := c.chatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// RecognizeText extracts visible text from a base64-encoded image.
func (c *Client) RecognizeText(ctx context.Context, imageBase64 string) (string, error) {
	return c.visionCompletion(ctx, "Extract visible text from this image. Return only raw text.", imageBase64)
}

// RecognizeASL interprets an American Sign Language gesture in the image.
func (c *Client) RecognizeASL(ctx context.Context, imageBase64 string) (string, error) {
	return c.visionCompletion(ctx, "Interpret the American Sign Language (ASL) gesture in this image and provide the corresponding English word or phrase.", imageBase64)
}

func (c *Client) visionCompletion(ctx context.Context, prompt, imageBase64 string) (string, error) {
	image := &struct {
		URL string `json:"url"`
	}{URL: "data:image/jpeg;base64," + imageBase64}

	req := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "user", Content: []imageContent{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: image},
			}},
		},
	}

	content, err := c.chatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// TextToSpeech renders text into mp3 audio bytes.
func (c *Client) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	req := speechRequest{
		Model:          c.cfg.SpeechModel,
		Voice:          c.cfg.Voice,
		Input:          text,
		ResponseFormat: "mp3",
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	respBody, status, err := c.doWithRetry(ctx, http.MethodPost, "/audio/speech", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("speech request failed with status %d: %s", status, truncate(string(respBody), 200))
	}

	return respBody, nil
}

// SpeechToText transcribes the audio bytes using the transcription model.
func (c *Client) SpeechToText(ctx context.Context, audio []byte, fileName string) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio payload: %w", err)
	}
	if err := form.WriteField("model", c.cfg.TranscribeModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	respBody, status, err := c.doWithRetry(ctx, http.MethodPost, "/audio/transcriptions", form.FormDataContentType(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("transcription request failed with status %d: %s", status, truncate(string(respBody), 200))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return parsed.Text, nil
}

func (c *Client) chatCompletion(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	respBody, status, err := c.doWithRetry(ctx, http.MethodPost, "/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("chat request failed with status %d: %s", status, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// doWithRetry executes the request with exponential backoff. Client errors
// (4xx) are not retried, they will not get better.
func (c *Client) doWithRetry(ctx context.Context, method, path, contentType string, body *bytes.Reader) ([]byte, int, error) {
	var respBody []byte
	var statusCode int
	var lastErr error

	backoff := time.Second

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}

		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return nil, 0, fmt.Errorf("failed to rewind request body: %w", err)
		}

		respBody, statusCode, lastErr = c.doSingle(ctx, method, path, contentType, body)
		if lastErr == nil && statusCode < 500 {
			break
		}
		if statusCode >= 400 && statusCode < 500 {
			break
		}
		if attempt == c.cfg.MaxRetries {
			break
		}

		c.logger.Warn("OpenAI request failed, retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.cfg.MaxRetries),
			zap.Int("status", statusCode),
			zap.Error(lastErr),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}

	if lastErr != nil {
		return nil, statusCode, lastErr
	}

	return respBody, statusCode, nil
}

func (c *Client) doSingle(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("OpenAI request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("response_size", len(respBody)),
	)

	return respBody, resp.StatusCode, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
