package helpers

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of our self-issued access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

func (c *Claims) IsDriver() bool {
	return c.UserType == "driver"
}

func (c *Claims) IsPassenger() bool {
	return c.UserType == "passenger"
}

func (c *Claims) IsOwner(userID string) bool {
	return c.UserID == userID
}
