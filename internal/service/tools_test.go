package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/translationhub/server/internal/errors"
)

type fakeProvider struct {
	detectLang    string
	translated    string
	err           error
	detectCalls   int
	translateCall int
}

func (p *fakeProvider) DetectLanguage(ctx context.Context, text string) (string, error) {
	p.detectCalls++
	return p.detectLang, p.err
}

func (p *fakeProvider) Translate(ctx context.Context, sourceLang, targetLang, text string) (string, error) {
	p.translateCall++
	return p.translated, p.err
}

func (p *fakeProvider) RecognizeText(ctx context.Context, imageBase64 string) (string, error) {
	return "recognized", p.err
}

func (p *fakeProvider) RecognizeASL(ctx context.Context, imageBase64 string) (string, error) {
	return "hello", p.err
}

func (p *fakeProvider) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	return []byte{1, 2, 3}, p.err
}

func (p *fakeProvider) SpeechToText(ctx context.Context, audio []byte, fileName string) (string, error) {
	return "transcribed", p.err
}

func newToolsFixture(provider *fakeProvider) *ToolsService {
	return NewToolsService(provider, NewTranslationCache(nil, time.Hour), nil)
}

func TestTranslateDetectsSourceLanguage(t *testing.T) {
	provider := &fakeProvider{detectLang: "EN", translated: "hola"}
	tools := newToolsFixture(provider)

	translated, detected, err := tools.Translate(context.Background(), "hello", "", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if translated != "hola" {
		t.Errorf("Expected hola, got %q", translated)
	}
	if detected != "en" {
		t.Errorf("Expected lowered detected language, got %q", detected)
	}
	if provider.detectCalls != 1 {
		t.Errorf("Expected one detection call, got %d", provider.detectCalls)
	}
}

func TestTranslateSkipsDetectionWithSource(t *testing.T) {
	provider := &fakeProvider{translated: "hola"}
	tools := newToolsFixture(provider)

	if _, _, err := tools.Translate(context.Background(), "hello", "en", "es"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if provider.detectCalls != 0 {
		t.Errorf("Expected no detection call, got %d", provider.detectCalls)
	}
}

func TestTranslateSameLanguageShortCircuits(t *testing.T) {
	provider := &fakeProvider{}
	tools := newToolsFixture(provider)

	translated, detected, err := tools.Translate(context.Background(), "hello", "en", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if translated != "hello" || detected != "en" {
		t.Errorf("Expected passthrough, got %q / %q", translated, detected)
	}
	if provider.translateCall != 0 {
		t.Errorf("Expected no upstream call, got %d", provider.translateCall)
	}
}

func TestTranslateUpstreamFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection reset")}
	tools := newToolsFixture(provider)

	_, _, err := tools.Translate(context.Background(), "hello", "en", "es")
	if !errors.Is(err, apperrors.ErrUpstreamFailed) {
		t.Errorf("Expected upstream error, got %v", err)
	}
	if status := apperrors.ToHTTPStatus(err); status != 502 {
		t.Errorf("Expected 502 mapping, got %d", status)
	}
}

func TestSpeechToTextRejectsEmptyAudio(t *testing.T) {
	tools := newToolsFixture(&fakeProvider{})

	_, err := tools.SpeechToText(context.Background(), nil, "clip.mp3")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Expected invalid-input error, got %v", err)
	}
}
