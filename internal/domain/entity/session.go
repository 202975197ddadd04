package entity

// Session is the credential context handed explicitly to every collaborator
// that talks to the remote service. It is created at login and destroyed at logout.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       string `json:"user_id"`
}

// Valid reports whether the session carries a bearer credential
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != ""
}

// Credentials is the login body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the signup body
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and signup
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Profile is the body of GET {auth}/me
type Profile struct {
	UserID   FlexibleID `json:"user_id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name,omitempty"`
	Phone    string     `json:"phone,omitempty"`
}

// ProfileUpdate is the body of PUT {auth}/{userId}; empty fields are omitted
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
