package request_models

type LoginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	UserID    string   `json:"user_id" binding:"required,min=3,max=50"`
	Email     string   `json:"email" binding:"required,email"`
	Nickname  string   `json:"nickname" binding:"required,min=2,max=50"`
	Password  string   `json:"password" binding:"required,min=6"`
	Username  string   `json:"username"`
	Interests []string `json:"interests"`
}
