package service

import (
	"context"
	"strings"

	apperrors "github.com/translationhub/server/internal/errors"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/docx"
	"github.com/translationhub/server/pkg/extract"
	"github.com/translationhub/server/pkg/logger"
)

// AIProvider is the upstream surface the tools service depends on.
type AIProvider interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, sourceLang, targetLang, text string) (string, error)
	RecognizeText(ctx context.Context, imageBase64 string) (string, error)
	RecognizeASL(ctx context.Context, imageBase64 string) (string, error)
	TextToSpeech(ctx context.Context, text string) ([]byte, error)
	SpeechToText(ctx context.Context, audio []byte, fileName string) (string, error)
}

// ToolsService fronts the AI provider for live translation, recognition,
// and speech, plus local document conversion.
type ToolsService struct {
	provider AIProvider
	cache    *TranslationCache
	docs     *docx.Builder
}

func NewToolsService(provider AIProvider, cache *TranslationCache, docs *docx.Builder) *ToolsService {
	return &ToolsService{provider: provider, cache: cache, docs: docs}
}

// Translate translates text, detecting the source language when the caller
// left it empty. Same source and target short-circuits without an upstream
// call.
func (s *ToolsService) Translate(ctx context.Context, text, sourceLang, targetLang string) (translated, detected string, err error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Translate")

	detected = sourceLang
	if detected == "" {
		detected, err = s.provider.DetectLanguage(ctx, text)
		if err != nil {
			return "", "", apperrors.WrapError(apperrors.ErrUpstreamFailed, err)
		}
		detected = strings.ToLower(detected)
	}

	if detected == targetLang {
		return text, detected, nil
	}

	if cached, ok := s.cache.Get(ctx, detected, targetLang, text); ok {
		logger.DebugWithContext(ctx, "Translation served from cache").
			String("source_lang", detected).
			String("target_lang", targetLang).
			Log()
		return cached, detected, nil
	}

	translated, err = s.provider.Translate(ctx, detected, targetLang, text)
	if err != nil {
		return "", "", apperrors.WrapError(apperrors.ErrUpstreamFailed, err)
	}

	s.cache.Set(ctx, detected, targetLang, text, translated)

	return translated, detected, nil
}

// DetectLanguage reports the ISO code of the text's primary language.
func (s *ToolsService) DetectLanguage(ctx context.Context, text string) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "DetectLanguage")

	lang, err := s.provider.DetectLanguage(ctx, text)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrUpstreamFailed, err)
	}
	return strings.ToLower(lang), nil
}

// RecognizeText extracts text from a base64 image.
func (s *ToolsService) RecognizeText(ctx context.Context, imageBase64 string) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RecognizeText")

	text, err := s.provider.RecognizeText(ctx, imageBase64)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrUpstreamFailed, err)
	}
	return text, nil
}

// RecognizeASL interprets an ASL gesture in a base64 image.
func (s *ToolsService) RecognizeASL(ctx context.Context, imageBase64 string) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RecognizeASL")

	text, err := s.provider.RecognizeASL(ctx, imageBase64)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrUpstreamFailed, err)
	}
	return text, nil
}

// TextToSpeech renders text as mp3 audio.
func (s *ToolsService) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "TextToSpeech")

	audio, err := s.provider.TextToSpeech(ctx, text)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrUpstreamFailed, err)
	}
	return audio, nil
}

// SpeechToText transcribes uploaded audio.
func (s *ToolsService) SpeechToText(ctx context.Context, audio []byte, fileName string) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "SpeechToText")

	if len(audio) == 0 {
		return "", apperrors.ErrInvalidInput
	}

	text, err := s.provider.SpeechToText(ctx, audio, fileName)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrUpstreamFailed, err)
	}
	return text, nil
}

// ExtractText pulls plain text out of a base64 document.
func (s *ToolsService) ExtractText(ctx context.Context, uri string) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ExtractText")

	text, err := extract.FromDataURI(uri)
	if err != nil {
		logger.WarnWithContext(ctx, "Text extraction failed").
			Err(err).
			Log()
		if apperrors.IsDomainError(err) {
			return "", err
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return text, nil
}

// GenerateDocx builds a Word document from plain text.
func (s *ToolsService) GenerateDocx(ctx context.Context, title, text string) ([]byte, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GenerateDocx")

	if title == "" {
		title = "Translation"
	}

	data, err := s.docs.Build(title, text)
	if err != nil {
		logger.ErrorWithContext(ctx, "Document generation failed").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return data, nil
}
