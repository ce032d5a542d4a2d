package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	From int
	Size int
}

// Validate rejects a negative offset or a non-positive page size with
// ErrInvalidInput.
func (p PaginationParams) Validate() error {
	if p.From < 0 || p.Size <= 0 {
		return ErrInvalidInput
	}
	return nil
}
