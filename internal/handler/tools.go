package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/translationhub/server/internal/constants"
	"github.com/translationhub/server/internal/dto"
	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/service"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
)

// maxAudioUpload bounds transcription uploads at 25MB, the provider's own
// limit.
const maxAudioUpload = 25 << 20

type ToolsHandler struct {
	tools *service.ToolsService
}

func NewToolsHandler(tools *service.ToolsService) *ToolsHandler {
	return &ToolsHandler{tools: tools}
}

// Translate performs a live translation, detecting the source language
// when the caller left it out.
func (h *ToolsHandler) Translate(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Translate")

	var req dto.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	translated, detected, err := h.tools.Translate(ctx, req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Translation failed").
			String("target_lang", req.TargetLang).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.TranslateResponse{TranslatedText: translated, DetectedLang: detected})
}

// DetectLanguage reports the language of a piece of text.
func (h *ToolsHandler) DetectLanguage(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DetectLanguage")

	var req dto.DetectLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	lang, err := h.tools.DetectLanguage(ctx, req.Text)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.DetectLanguageResponse{Language: lang})
}

// RecognizeText extracts text from a base64 image.
func (h *ToolsHandler) RecognizeText(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RecognizeText")

	var req dto.RecognizeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	text, err := h.tools.RecognizeText(ctx, req.ImageBase64)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.TextResponse{Text: text})
}

// RecognizeASL interprets an ASL gesture in a base64 image.
func (h *ToolsHandler) RecognizeASL(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RecognizeASL")

	var req dto.RecognizeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	text, err := h.tools.RecognizeASL(ctx, req.ImageBase64)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.TextResponse{Text: text})
}

// TextToSpeech renders text to mp3 and streams it back.
func (h *ToolsHandler) TextToSpeech(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "TextToSpeech")

	var req dto.TextToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	audio, err := h.tools.TextToSpeech(ctx, req.Text)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Speech synthesis failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.Data(http.StatusOK, constants.ContentTypeMP3, audio)
}

// SpeechToText transcribes an uploaded audio file. Accepts multipart form
// uploads under the "file" field, or a raw body.
func (h *ToolsHandler) SpeechToText(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SpeechToText")

	audio, fileName, err := readAudio(c)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to read audio upload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid audio upload", err.Error()))
		return
	}

	text, err := h.tools.SpeechToText(ctx, audio, fileName)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Transcription failed").
			Int("audio_size", len(audio)).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.TextResponse{Text: text})
}

func readAudio(c *gin.Context) ([]byte, string, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxAudioUpload))
		return data, file.Filename, err
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAudioUpload))
	return data, "audio.mp3", err
}

// ExtractText pulls plain text out of a base64 document.
func (h *ToolsHandler) ExtractText(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ExtractText")

	var req dto.ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	text, err := h.tools.ExtractText(ctx, req.URI)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.TextResponse{Text: text})
}

// GenerateDocx builds a Word document from plain text and streams it back.
func (h *ToolsHandler) GenerateDocx(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GenerateDocx")

	var req dto.GenerateDocxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	data, err := h.tools.GenerateDocx(ctx, req.Title, req.Text)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="translation.docx"`)
	c.Data(http.StatusOK, constants.ContentTypeDocx, data)
}
