package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of access levels known to the API. Route guards and
// ownership checks compare against these constants, never raw strings.
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Role     Role               `bson:"role" json:"role"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, hidden from JSON responses

	// Reset tokens are stored hashed; the raw token only ever leaves via email.
	ResetPasswordToken  string     `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time `bson:"resetPasswordExpire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsAdmin is the privileged-role shorthand used by ownership checks.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Owns reports whether the user may mutate a record owned by ownerID:
// either they created it or they are an admin.
func (u *User) Owns(ownerID primitive.ObjectID) bool {
	return u.ID == ownerID || u.IsAdmin()
}
