package models

import "time"

// User is the identity returned by /auth/me and /users/me.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials is the token pair issued by login and refresh. An empty
// FingerprintHash means the server did not send one.
type Credentials struct {
	AccessToken     string `json:"accessToken"`
	RefreshToken    string `json:"refreshToken"`
	FingerprintHash string `json:"fingerprintHash,omitempty"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of PATCH /users/me; nil fields are left as is.
type ProfileUpdate struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}
