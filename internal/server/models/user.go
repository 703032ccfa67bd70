package models

import "time"

// User is a stored account. PasswordHash never leaves the server; use Info
// for anything that is sent to a client.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Pic          string
	CreatedAt    time.Time
}

// UserInfo is the redacted view of a User.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Pic   string `json:"pic"`
}

func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Pic: u.Pic}
}

// AuthResult is returned by login and registration: a fresh token plus the user.
type AuthResult struct {
	Token string `json:"token"`
	UserInfo
}

// UserFilter narrows ListUsers. Search matches name or email, case-insensitively.
type UserFilter struct {
	Search    string
	ExcludeID string
}
