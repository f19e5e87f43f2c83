package installation

// Messages shown to the user after an install attempt
const (
	MessageCreated   = "User created, you can now login to the administration page."
	MessageDuplicate = "Unable to install when there already user registered."
)

// Outcome is the result of Make
type Outcome struct {
	Success bool
	// Message is the flat success or error message
	Message string
	// FieldErrors is set when the input failed validation
	FieldErrors map[string][]string
	Err         error
}

func success() Outcome {
	return Outcome{Success: true, Message: MessageCreated}
}

func failure(err error) Outcome {
	return Outcome{Message: err.Error(), Err: err}
}

// Invalid reports whether the attempt stopped at validation
func (o Outcome) Invalid() bool {
	return len(o.FieldErrors) > 0
}
