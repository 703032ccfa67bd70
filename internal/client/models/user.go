// Package models defines client-side data models used by the chat client.
package models

// UserInfo is the redacted user record the server returns and the client caches.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Pic   string `json:"pic"`
}

// Session is what a successful login or registration yields.
type Session struct {
	Token string `json:"token"`
	UserInfo
}

// ImageFile is a picture picked on the client.
type ImageFile struct {
	Name string
	Data []byte
}

// ProfileUpdate is TextOnly when Image is nil, WithImage otherwise.
type ProfileUpdate struct {
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Image *ImageFile `json:"-"`
}

func (p ProfileUpdate) HasImage() bool {
	return p.Image != nil
}
