package utils // package utils provides helpers for token issuing, verification and hashing

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/iliyamo/job-application-tracker/internal/model"
)

// Verification failure kinds. Callers that log should keep these apart;
// the HTTP layer is free to collapse all of them into a single 401 so a
// client cannot tell a tampered token from an expired one.
var (
    ErrTokenExpired   = errors.New("token expired")
    ErrTokenMalformed = errors.New("token malformed")
    ErrTokenSignature = errors.New("token signature invalid")
)

// AccessToken represents a signed JWT along with its expiry. The Token
// field contains the serialized JWT string; Exp stores the absolute UTC
// expiration. Access tokens are carried in the Authorization header on
// every protected request.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims is the decoded payload of a verified access token: the subject
// user ID plus the role and username claims the issuer embedded.
type Claims struct {
    UserID   uint64
    Role     model.Role
    Username string
}

// jwtClaims is the wire shape of the token payload. Subject carries the
// user ID in decimal form.
type jwtClaims struct {
    jwt.RegisteredClaims
    Role     string `json:"role"`
    Username string `json:"username"`
}

// NewAccessToken builds and signs an HS256 JWT for a user. It takes the
// signing secret, the user's identity and role, and a TTL in minutes.
// The JWT carries subject (sub), role, username, expiration (exp) and
// issued-at (iat). The secret is passed in by the caller; there is no
// package-level signing state.
func NewAccessToken(secret string, userID uint64, role model.Role, username string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwtClaims{
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
        Role:     string(role),
        Username: username,
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies a serialized token against the signing
// secret and returns its claims. Failures are reported as exactly one
// of ErrTokenExpired, ErrTokenSignature or ErrTokenMalformed; a token
// whose claims do not decode into a known user ID and role is treated
// as malformed.
func ParseAccessToken(secret, raw string) (Claims, error) {
    var wc jwtClaims
    tok, err := jwt.ParseWithClaims(raw, &wc, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC: an attacker must
        // not be able to pick a weaker or keyless algorithm.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenSignature
        }
        return []byte(secret), nil
    })
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenExpired):
            return Claims{}, ErrTokenExpired
        case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
            return Claims{}, ErrTokenSignature
        default:
            return Claims{}, ErrTokenMalformed
        }
    }
    if !tok.Valid {
        return Claims{}, ErrTokenMalformed
    }
    id, err := strconv.ParseUint(wc.Subject, 10, 64)
    if err != nil || id == 0 {
        return Claims{}, ErrTokenMalformed
    }
    role, ok := model.ParseRole(wc.Role)
    if !ok {
        return Claims{}, ErrTokenMalformed
    }
    return Claims{UserID: id, Role: role, Username: wc.Username}, nil
}
