// Package queue defines message payloads exchanged over the message broker.
package queue

// RecoveryCodeIssuedEvent is published when the identity-verification
// step of the forgot-password flow issues a new recovery code. The
// delivery worker consumes it and gets the code to the user; the HTTP
// response that triggered issuance never contains the code itself.
type RecoveryCodeIssuedEvent struct {
    UserID    uint64 `json:"user_id"`
    Username  string `json:"username"`
    Email     string `json:"email"`
    Code      string `json:"code"`
    ExpiresAt string `json:"expires_at"`
    IssuedAt  string `json:"issued_at"`
}
