package model

// UserRole is carried in access tokens issued by the identity provider. Users
// are not stored locally.
type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)
