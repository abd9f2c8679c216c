package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainjwt "github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/jwt"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/config"
)

// RefreshTokenBytes is the amount of randomness in one refresh token.
const RefreshTokenBytes = 64

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

type JwtUtilImpl struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   string
	now        func() time.Time
}

type Option func(*JwtUtilImpl)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(j *JwtUtilImpl) { j.now = now }
}

func NewJWTUtil(cfg *config.Config, opts ...Option) (*JwtUtilImpl, error) {
	if cfg.JWTSecretKey == "" {
		return nil, customErrors.NewConfiguration("jwt signing key is not configured")
	}

	j := &JwtUtilImpl{
		key:        []byte(cfg.JWTSecretKey),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *JwtUtilImpl) RefreshTTL() time.Duration {
	return j.refreshTTL
}

func (j *JwtUtilImpl) GenerateAccessToken(user model.User) (token string, exp time.Time, jti string, err error) {
	jti = uuid.NewString()
	now := j.now()

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
			ID:        jti,
		},
		Email: user.Email,
		Name:  user.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, jti, nil
}

func (j *JwtUtilImpl) GenerateRefreshToken() (string, error) {
	buf := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", customErrors.WrapInternal(err, "generate refresh token")
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// ValidateAccessToken enforces signature, algorithm, issuer, audience and expiry.
func (j *JwtUtilImpl) ValidateAccessToken(raw string) (domainjwt.AccessClaims, error) {
	return j.validate(raw, true)
}

// ValidateForRenewal performs the same checks as ValidateAccessToken except
// expiry, so that an expired access token can authorize a renewal.
func (j *JwtUtilImpl) ValidateForRenewal(raw string) (domainjwt.AccessClaims, error) {
	return j.validate(raw, false)
}

func (j *JwtUtilImpl) validate(raw string, enforceExpiry bool) (domainjwt.AccessClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// registered claims are checked below so both modes share one code path
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	if iss, err := claims.GetIssuer(); err != nil || iss != j.issuer {
		return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	aud, err := claims.GetAudience()
	if err != nil {
		return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
	}
	okAudi := false
	for _, a := range aud {
		if a == j.audience {
			okAudi = true
			break
		}
	}
	if !okAudi {
		return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
	}
	if enforceExpiry {
		now := j.now()
		if exp == nil || !now.Before(exp.Time) {
			return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
		}
		nbf, err := claims.GetNotBefore()
		if err != nil || (nbf != nil && now.Before(nbf.Time)) {
			return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
		}
	}

	userID, ok := subjectFrom(claims)
	if !ok {
		return domainjwt.AccessClaims{}, customErrors.ErrInvalidToken
	}

	out := domainjwt.AccessClaims{
		UserID:   userID,
		Email:    stringClaim(claims, "email"),
		Name:     stringClaim(claims, "name"),
		ID:       stringClaim(claims, "jti"),
		Issuer:   j.issuer,
		Audience: aud,
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}

// subjectFrom walks SubjectClaimKeys; the first key present decides.
func subjectFrom(claims jwt.MapClaims) (int64, bool) {
	for _, key := range domainjwt.SubjectClaimKeys {
		raw, present := claims[key]
		if !present {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return 0, false
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
