package domain

import "context"

// User is referenced by id within the admission core; profile management
// lives elsewhere.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Category classifies events; only existence checks matter here.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRepository defines the user lookups the admission core needs.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
}

// CategoryRepository defines the category lookups the admission core needs.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*Category, error)
}
