package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Codec encodes a session record into a signed, time-limited token and
// verifies/decodes it back. Tokens are HMAC-SHA256 JWTs signed with a
// process-wide secret; with no server-side session store, signature
// verification is the only trust boundary.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// sessionClaims is the wire form of a session record.
type sessionClaims struct {
	Actor      *Actor `json:"act,omitempty"`
	Status     Status `json:"sts,omitempty"`
	RedirectTo string `json:"rdr,omitempty"`
	Flash      *Flash `json:"msg,omitempty"`
	jwtlib.RegisteredClaims
}

// NewCodec creates a codec from the configured secret and TTL. An empty
// secret is a deployment precondition failure, not a per-request error.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, apperrors.ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode serializes the record with a freshly stamped issued-at and expiry.
// Any timestamps already on the record are discarded, so every response
// renews the TTL (sliding expiration).
func (c *Codec) Encode(data Data) (string, error) {
	data = data.normalize()
	now := NowTimeFunc()

	claims := sessionClaims{
		Actor:      data.Actor,
		Status:     data.Status,
		RedirectTo: data.RedirectTo,
		Flash:      data.Flash,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperrors.Wrapf(err, "failed to sign session token")
	}
	return signed, nil
}

// Decode verifies the token and restores the session record. It returns
// ErrTokenExpired for a well-signed but stale token and ErrInvalidToken for
// anything else; callers treat both as "no session" and must not tell the
// end user which one occurred.
func (c *Codec) Decode(token string) (Data, error) {
	if token == "" {
		return Data{}, apperrors.ErrInvalidToken
	}

	claims := &sessionClaims{}
	_, err := jwtlib.ParseWithClaims(token, claims, c.verificationKey,
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
		jwtlib.WithIssuedAt(),
	)
	if err != nil {
		if apperrors.Is(err, jwtlib.ErrTokenExpired) {
			return Data{}, apperrors.ErrTokenExpired
		}
		return Data{}, apperrors.ErrInvalidToken
	}

	data := Data{
		Actor:      claims.Actor,
		Status:     claims.Status,
		RedirectTo: claims.RedirectTo,
		Flash:      claims.Flash,
	}
	if claims.IssuedAt != nil {
		data.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		data.ExpiresAt = claims.ExpiresAt.Time
	}
	return data.normalize(), nil
}

func (c *Codec) verificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, apperrors.ErrInvalidToken
	}
	return c.secret, nil
}
