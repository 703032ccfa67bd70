package forms

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice titles and descriptions shown to the user.
const (
	TitleFillAllFields  = "Please Fill all the Fields"
	TitleLoginOK        = "Login Successful"
	TitleLoginFailed    = "Error Occurred!"
	TitleMissingFields  = "Missing Fields"
	DescMissingFields   = "Name and Email cannot be empty"
	TitleProfileUpdated = "Profile Updated"
	TitleUpdateFailed   = "Error Updating Profile"
	DescNoToken         = "Not authorized, no token found"
	DescGenericFailure  = "Something went wrong, please try again"
)

type Notice struct {
	Level       Level
	Title       string
	Description string
}

// Notifier shows notices. Notify returns once the notice has been delivered.
type Notifier interface {
	Notify(n Notice)
}

type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) {
	f(n)
}
