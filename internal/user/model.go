package user

// User is the persisted user record.
type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// UserDto is the wire representation of a user. ID is only present when
// echoing a stored record.
type UserDto struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (d UserDto) toEntity() *User {
	return &User{
		Name:  d.Name,
		Email: d.Email,
	}
}

// ToDto maps a stored user to its wire form, identifier included.
func (u User) ToDto() UserDto {
	id := u.ID
	return UserDto{
		ID:    &id,
		Name:  u.Name,
		Email: u.Email,
	}
}
