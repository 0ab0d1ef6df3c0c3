package model

// User is the authoritative user row. The bcrypt digest never appears in
// JSON; cached snapshots and API responses carry only the public fields.
type User struct {
	UID            int64  `json:"uid"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	IsActive       bool   `json:"is_active"`
	HashedPassword string `json:"-"`
}

// UserCreate is the insert shape. The password has already been hashed by
// the time a record reaches the repository.
type UserCreate struct {
	Username       string
	Email          string
	FirstName      string
	LastName       string
	HashedPassword string
	IsActive       bool
}

// UserUpdate is the field-level update shape; the password is not mutable
// through it.
type UserUpdate struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserRead is the public profile returned by the API.
type UserRead struct {
	UID       int64  `json:"uid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

func (u *User) Read() UserRead {
	return UserRead{
		UID:       u.UID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
	}
}
