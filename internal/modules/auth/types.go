package auth

// RegisterDTO is the request body for account registration.
type RegisterDTO struct {
	Username     string `json:"username"`
	SHProfileURL string `json:"shProfileUrl"`
	Password     string `json:"password"`
}

// LoginDTO is the request body for password login.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}
