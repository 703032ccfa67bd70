package models

// ImageUpload is a picture received with a profile update.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ProfileUpdate is either text-only (Image == nil) or carries a new picture.
type ProfileUpdate struct {
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Image *ImageUpload `json:"-"`
}

func (p ProfileUpdate) HasImage() bool {
	return p.Image != nil
}

// Registration is the payload of a sign-up request.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Pic      string `json:"pic"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
