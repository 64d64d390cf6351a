package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type SessionResponse struct {
	Token      string       `json:"token"`
	TokenType  string       `json:"tokenType"`
	Expiration string       `json:"expiration"`
	User       UserResponse `json:"user"`
}
