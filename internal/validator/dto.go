package validator

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email,max=255"`
	Secret string `json:"secret" validate:"omitempty,max=128"`
}

// LoginRequest is the payload for authenticating an existing account.
type LoginRequest struct {
	Email  string `json:"email" validate:"required,email,max=255"`
	Secret string `json:"secret" validate:"omitempty,max=128"`
}

// PreferencesRequest is the setup snapshot for a new practice session.
type PreferencesRequest struct {
	JobRole         string `json:"job_role" validate:"required,max=200"`
	Company         string `json:"company" validate:"omitempty,max=200"`
	ExperienceLevel string `json:"experience_level" validate:"required,experience_level"`
	FocusArea       string `json:"focus_area" validate:"omitempty,focus_area"`
}

// CreateSessionRequest creates a session for a user.
type CreateSessionRequest struct {
	UserID      string             `json:"user_id" validate:"required"`
	Preferences PreferencesRequest `json:"preferences" validate:"required"`
}

// SubmitAnswerRequest submits one candidate answer to an active session.
type SubmitAnswerRequest struct {
	Text string `json:"text" validate:"required"`
}
