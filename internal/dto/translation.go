package dto

import "time"

// SaveTranslationRequest records one finished translation in the user's
// history. Type distinguishes the client feature that produced it.
type SaveTranslationRequest struct {
	FromLang       string `json:"fromLang" binding:"required,langcode"`
	ToLang         string `json:"toLang" binding:"required,langcode"`
	OriginalText   string `json:"original_text" binding:"required"`
	TranslatedText string `json:"translated_text" binding:"required"`
	Type           string `json:"type" binding:"omitempty,max=32"`
}

// TranslationResponse is one history entry.
type TranslationResponse struct {
	ID             string    `json:"id"`
	FromLang       string    `json:"fromLang"`
	ToLang         string    `json:"toLang"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

// StatResponse is one language-pair usage counter.
type StatResponse struct {
	FromLang string `json:"fromLang"`
	ToLang   string `json:"toLang"`
	Count    int64  `json:"count"`
}

// AuditLogResponse is one recorded account action.
type AuditLogResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	TableName string    `json:"table_name"`
	RecordID  string    `json:"record_id"`
	Details   any       `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
