package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RolePublisher.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestUserOwns(t *testing.T) {
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	owner := &User{ID: ownerID, Role: RolePublisher}
	stranger := &User{ID: otherID, Role: RoleUser}
	admin := &User{ID: otherID, Role: RoleAdmin}

	assert.True(t, owner.Owns(ownerID))
	assert.False(t, stranger.Owns(ownerID))
	assert.True(t, admin.Owns(ownerID), "admin may act on any record")
}

func TestValidCareer(t *testing.T) {
	assert.True(t, ValidCareer("Web Development"))
	assert.True(t, ValidCareer("Other"))
	assert.False(t, ValidCareer("Underwater Basket Weaving"))
}
