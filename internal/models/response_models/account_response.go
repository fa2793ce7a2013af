package response_models

type AccountLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type AccountResponse struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Email        string   `json:"email"`
	Nickname     string   `json:"nickname"`
	ProfileImage string   `json:"profile_image"`
	Interests    []string `json:"interests"`
	CreatedAt    int64    `json:"created_at"`
}
