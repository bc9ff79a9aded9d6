package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 1.0, AverageRating(nil), "unrated providers default to 1")
	assert.Equal(t, 1.0, AverageRating([]Review{}))

	assert.Equal(t, 4.0, AverageRating([]Review{{Rating: 4}}))
	assert.Equal(t, 3.0, AverageRating([]Review{{Rating: 2}, {Rating: 4}}))
	assert.InDelta(t, 3.6666, AverageRating([]Review{{Rating: 5}, {Rating: 3}, {Rating: 3}}), 0.001)
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleProvider.IsValid())
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}
