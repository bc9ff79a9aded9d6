package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndComparePassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("Passw0rd!"))

	assert.NotEqual(t, "Passw0rd!", u.Password, "password must be stored hashed")
	assert.NoError(t, u.ComparePassword("Passw0rd!"))
	assert.Error(t, u.ComparePassword("wrong-password"))
}

func TestProfileComplete(t *testing.T) {
	u := &User{Pricing: 40, Location: "Berlin"}

	assert.True(t, u.ProfileComplete(2))
	assert.False(t, u.ProfileComplete(0), "needs at least one service")

	assert.False(t, (&User{Pricing: 0, Location: "Berlin"}).ProfileComplete(2))
	assert.False(t, (&User{Pricing: 40, Location: ""}).ProfileComplete(2))
}
