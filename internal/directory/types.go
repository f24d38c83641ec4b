package directory

// User is a directory member who can be paged or own services.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TimeZone string `json:"time_zone"`
}

// Team groups users and owns services.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Service is a monitored service record.
type Service struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	TeamIDs            []string `json:"team_ids"`
	EscalationPolicyID string   `json:"escalation_policy_id"`
}
