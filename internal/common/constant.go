package common

const (
	// AuthorizationHeaderName carries the bearer token on protected calls.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the scheme prefix expected in the Authorization header.
	BearerPrefix = "Bearer "

	// DefaultPic is assigned to users registered without a picture.
	DefaultPic = "https://icon-library.com/images/anonymous-avatar-icon/anonymous-avatar-icon-25.jpg"
)

// Guest account offered by the login screen and seeded by the server.
const (
	GuestName     = "Guest User"
	GuestEmail    = "user1@example.com"
	GuestPassword = "password1"
)
