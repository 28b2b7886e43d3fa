package dto

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserProfile is the public view of a user. Never carries password material.
type UserProfile struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	DefaultFromLang *string `json:"defaultFromLang,omitempty"`
	DefaultToLang   *string `json:"defaultToLang,omitempty"`
}

// LoginResponse carries the bearer token plus the authenticated profile.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// ValidateSessionResponse reports whether the presented token maps to a
// live session.
type ValidateSessionResponse struct {
	Valid bool         `json:"valid"`
	User  *UserProfile `json:"user,omitempty"`
}

// UpdatePreferencesRequest sets the user's default language pair.
type UpdatePreferencesRequest struct {
	DefaultFromLang *string `json:"defaultFromLang" binding:"omitempty,langcode"`
	DefaultToLang   *string `json:"defaultToLang" binding:"omitempty,langcode"`
}
