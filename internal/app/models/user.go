package models

// UserProfile is the authenticated user's profile as returned by the
// backend, plus the level label derived from karma.
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Karma int    `json:"karma"`
	// Level is computed client-side, the backend never sends it.
	Level string `json:"-"`
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
