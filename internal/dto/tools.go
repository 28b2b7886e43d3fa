package dto

// TranslateRequest asks for a live translation. SourceLang may be empty,
// in which case the language is detected first.
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"targetLang" binding:"required,langcode"`
	SourceLang string `json:"sourceLang" binding:"omitempty,langcode"`
}

// TranslateResponse carries the result and the language that was detected
// (or passed through) for the source text.
type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
	DetectedLang   string `json:"detectedLang"`
}

// DetectLanguageRequest asks which language a piece of text is in.
type DetectLanguageRequest struct {
	Text string `json:"text" binding:"required"`
}

// DetectLanguageResponse reports the detected ISO code.
type DetectLanguageResponse struct {
	Language string `json:"language"`
}

// RecognizeImageRequest submits a base64 image for text or sign recognition.
type RecognizeImageRequest struct {
	ImageBase64 string `json:"imageBase64" binding:"required,base64"`
}

// TextToSpeechRequest submits text to render as audio.
type TextToSpeechRequest struct {
	Text string `json:"text" binding:"required"`
}

// ExtractTextRequest submits a base64 document (bare or data-URI form).
type ExtractTextRequest struct {
	URI string `json:"uri" binding:"required"`
}

// GenerateDocxRequest asks for a Word document built from plain text.
type GenerateDocxRequest struct {
	Title string `json:"title" binding:"omitempty,max=255"`
	Text  string `json:"text" binding:"required"`
}

// TextResponse is the generic single-text result used by recognition,
// transcription, and extraction endpoints.
type TextResponse struct {
	Text string `json:"text"`
}
