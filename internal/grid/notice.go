package grid

// Level classifies a user-facing notification.
type Level string

const (
	// LevelSuccess reports a completed mutation.
	LevelSuccess Level = "success"
	// LevelError reports a failed mutation, carrying the backend detail.
	LevelError Level = "error"
)

// Notice is the transient notification a mutation surfaces to the user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func successNotice(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }

func errorNotice(msg string) Notice { return Notice{Level: LevelError, Message: msg} }
