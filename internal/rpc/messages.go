package rpc

import "time"

// User is the wire form of a user record. It never carries a password hash.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	Verified  bool      `json:"verified"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"created_at"`
}

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// VerifyRequest carries credentials, not a bearer token, plus the passcode.
type VerifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Passcode string `json:"passcode"`
}

type UserResponse struct {
	User User `json:"user"`
}

type GetUserRequest struct {
	Username string `json:"username"`
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type SetAdminRequest struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type SetBannedRequest struct {
	Username string `json:"username"`
	Banned   bool   `json:"banned"`
}

type RenameUserRequest struct {
	Username    string `json:"username"`
	NewUsername string `json:"new_username"`
}

type DeleteUserRequest struct {
	Username string `json:"username"`
}

type PasscodeResponse struct {
	Passcode string `json:"passcode"`
}

type RotatePasscodeRequest struct {
	Passcode string `json:"passcode"`
}

type RotatePasscodeResponse struct {
	Revoked int64 `json:"revoked"`
}
