package encoder

import (
	"github.com/jxskiss/base62"
	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
)

const (
	DefaultKeyLength = 8
	// MaxKeyLength is the base-62 length of math.MaxInt64.
	MaxKeyLength = 11

	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var encoding = base62.NewEncoding(alphabet)

type Base62Encoder struct {
	keyLength int
}

func CreateBase62Encoder(keyLength int) (*Base62Encoder, error) {
	if keyLength < 1 || keyLength > MaxKeyLength {
		return nil, errors.Errorf("key length must be in [1, %d], got: %d", MaxKeyLength, keyLength)
	}
	return &Base62Encoder{keyLength: keyLength}, nil
}

// Encode keeps the last keyLength base-62 digits of id, without leading zero
// digits. Ids congruent modulo 62^keyLength that both need keyLength digits
// or more share a key.
func (b *Base62Encoder) Encode(id int64) (string, error) {
	if id < 0 {
		return "", errors.Wrapf(domain.ErrEncodeFailed, "negative id: %d", id)
	}

	key := string(encoding.FormatInt(id))
	if len(key) > b.keyLength {
		key = key[len(key)-b.keyLength:]
	}
	return key, nil
}

// Decode returns the id a key was encoded from. The result equals the
// original id only when its full encoding fit in keyLength digits.
func (b *Base62Encoder) Decode(key string) (int64, error) {
	if len(key) > b.keyLength || !IsKeyFormat(key) {
		return 0, errors.Errorf("invalid key: %s", key)
	}
	id, err := encoding.ParseInt([]byte(key))
	if err != nil {
		return 0, errors.Wrap(err, "parse key failed")
	}
	return id, nil
}

func IsKeyFormat(key string) bool {
	if key == "" || len(key) > MaxKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
