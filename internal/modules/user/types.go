package user

// DeletionRequestDTO is the body for a self-deletion request.
type DeletionRequestDTO struct {
	Reason string `json:"reason"`
}
