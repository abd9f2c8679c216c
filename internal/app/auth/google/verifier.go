package google

import (
	"context"
	"strings"

	"google.golang.org/api/idtoken"

	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
)

// VerifiedIdentity is what a successful Google sign-in vouches for.
type VerifiedIdentity struct {
	Subject string
	Email   string
	Name    string
}

type Verifier interface {
	Verify(ctx context.Context, idToken string) (VerifiedIdentity, error)
}

// ValidateFunc matches idtoken.Validate.
type ValidateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type IDTokenVerifier struct {
	clientID string
	validate ValidateFunc
}

// NewIDTokenVerifier checks Google ID tokens against Google's published keys
// with clientID as the expected audience.
func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID, validate: idtoken.Validate}
}

// WithValidateFunc swaps the signature check, used by tests.
func (v *IDTokenVerifier) WithValidateFunc(fn ValidateFunc) *IDTokenVerifier {
	v.validate = fn
	return v
}

func (v *IDTokenVerifier) Verify(ctx context.Context, idToken string) (VerifiedIdentity, error) {
	// idtoken skips the audience check for an empty audience
	if v.clientID == "" || strings.TrimSpace(idToken) == "" {
		return VerifiedIdentity{}, customErrors.ErrInvalidAssertion
	}

	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil || payload == nil {
		return VerifiedIdentity{}, customErrors.ErrInvalidAssertion
	}
	if payload.Audience != v.clientID {
		return VerifiedIdentity{}, customErrors.ErrInvalidAssertion
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return VerifiedIdentity{}, customErrors.ErrInvalidAssertion
	}
	if verified, present := payload.Claims["email_verified"]; present && !truthy(verified) {
		return VerifiedIdentity{}, customErrors.ErrInvalidAssertion
	}

	name, _ := payload.Claims["name"].(string)
	if strings.TrimSpace(name) == "" {
		name = localPart(email)
	}

	return VerifiedIdentity{Subject: payload.Subject, Email: email, Name: name}, nil
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
