// Package repository defines the credential store: the contract the
// auth handlers and the recovery flow depend on, and its MySQL
// implementation. Sentinel errors declared here let handlers translate
// storage outcomes into HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrUserExists is returned by Create when the username or email is
// already taken. The uniqueness check is the database's unique keys, not
// a prior SELECT, so two concurrent registrations cannot both succeed.
// Handlers translate this into an HTTP 409 response.
var ErrUserExists = errors.New("username or email already exists")

// ErrUserNotFound is returned by the lookup operations when no matching
// row exists. Handlers decide per endpoint whether this becomes a 401
// (login), a 404 (identity verification) or a 400 (recovery steps).
var ErrUserNotFound = errors.New("user not found")
