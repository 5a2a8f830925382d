package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Surname  string `json:"surname" validate:"max=200"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Role     string `json:"role" validate:"required,oneof=SALES ADMIN"`
	Active   *bool  `json:"active"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// UpdateUserRequest is the body of PUT /users/:id. Absent fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Surname  *string `json:"surname" validate:"omitempty,max=200"`
	Email    *string `json:"email" validate:"omitempty,email,max=320"`
	Role     *string `json:"role" validate:"omitempty,oneof=SALES ADMIN"`
	Active   *bool   `json:"active"`
	Password *string `json:"password" validate:"omitempty,strongpassword"`
}

// ListUsersRequest holds pagination for GET /users.
type ListUsersRequest struct {
	Skip  int `form:"skip,default=0" validate:"gte=0"`
	Limit int `form:"limit,default=100" validate:"gte=1"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
