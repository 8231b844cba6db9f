package utils

import (
    "crypto/rand"
    "crypto/sha256"
    "encoding/hex"
    "strings"
)

// recoveryCodeBytes controls the entropy of a recovery code. Four random
// bytes encode to eight hex characters, short enough to retype from an
// email and guarded by expiry, single use and rate limiting.
const recoveryCodeBytes = 4

// NewRecoveryCode returns a fresh random recovery code. The code is
// drawn from crypto/rand and is never derived from user data, so one
// issued code tells an attacker nothing about the next.
func NewRecoveryCode() (string, error) {
    buf := make([]byte, recoveryCodeBytes)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// HashRecoveryCode returns the SHA-256 hex digest of a recovery code.
// Only the digest is persisted, so a leaked database row cannot be
// replayed as a reset code. Comparison is case-insensitive on the code
// itself since codes are displayed upper-case.
func HashRecoveryCode(code string) string {
    sum := sha256.Sum256([]byte(strings.ToUpper(strings.TrimSpace(code))))
    return hex.EncodeToString(sum[:])
}
