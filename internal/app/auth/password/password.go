package password

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
)

// DefaultParams is what production hashes are created with.
var DefaultParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches digest. An empty digest never
	// matches.
	Verify(digest, password string) (bool, error)
}

type argonHasher struct {
	params *argon2id.Params
	pepper string
}

func NewArgon2(params *argon2id.Params, pepper string) Hasher {
	if params == nil {
		params = DefaultParams
	}
	return &argonHasher{params: params, pepper: pepper}
}

func (h *argonHasher) Hash(password string) (string, error) {
	digest, err := argon2id.CreateHash(password+h.pepper, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return digest, nil
}

func (h *argonHasher) Verify(digest, password string) (bool, error) {
	if digest == "" {
		return false, nil
	}
	ok, err := argon2id.ComparePasswordAndHash(password+h.pepper, digest)
	if err != nil {
		return false, customErrors.WrapInternal(err, "verify password")
	}
	return ok, nil
}
