// Package model defines the data structures used throughout the application.
//
// Stored records (Blog, Post, Comment, User, Video, Reaction) are what the
// repositories read and write. View types (PostView, CommentView, UserView,
// MeView) are what handlers encode; likes info is attached to them on read.
package model

import "time"

// User is an identity record. The credential and code fields never leave
// the server: they carry json:"-" and list queries do not select them.
type User struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PasswordSalt string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`

	Confirmation EmailConfirmation `json:"-"`
	Recovery     *RecoveryCode     `json:"-"`
}

// EmailConfirmation tracks the registration state machine:
// unconfirmed (with a code and expiry) → confirmed.
type EmailConfirmation struct {
	IsConfirmed    bool
	Code           string
	ExpirationDate time.Time
}

// RecoveryCode is a pending single-use password reset.
type RecoveryCode struct {
	Code      string
	ExpiresAt time.Time
}

// UserView is the public projection of a user.
type UserView struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// View projects the user for list and create responses.
func (u *User) View() UserView {
	return UserView{ID: u.ID, Login: u.Login, Email: u.Email, CreatedAt: u.CreatedAt}
}

// MeView is returned by GET /auth/me.
type MeView struct {
	UserID string `json:"userId"`
	Login  string `json:"login"`
	Email  string `json:"email"`
}

// UserFilter narrows GET /users. A user matches if either term matches.
type UserFilter struct {
	SearchLoginTerm string
	SearchEmailTerm string
}

// UserInput is the body of POST /users and POST /auth/registration.
type UserInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginInput struct {
	LoginOrEmail string `json:"loginOrEmail"`
	Password     string `json:"password"`
}

type ConfirmationInput struct {
	Code string `json:"code"`
}

type EmailInput struct {
	Email string `json:"email"`
}

type NewPasswordInput struct {
	NewPassword  string `json:"newPassword"`
	RecoveryCode string `json:"recoveryCode"`
}
