package inbox

import "time"

// Submission is one contact form received in remote mode.
type Submission struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	Origin     string    `json:"origin,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListFilter controls which submissions to return.
type ListFilter struct {
	InstanceID string
	Limit      int
	Offset     int
}
