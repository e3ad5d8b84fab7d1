package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var (
	ErrNegativeLength = errors.New("length must be non-negative")
	ErrEmptyAlphabet  = errors.New("alphabet must not be empty")
)

const (
	ShareTokenLength        = 32
	TemporaryPasswordLength = 16
)

// Look-alike characters (l, I, O, 0, 1) are left out.
const (
	lowerLetters = "abcdefghijkmnopqrstuvwxyz"
	upperLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digits       = "23456789"
	symbols      = "!@#%+="

	shareTokenAlphabet = lowerLetters + upperLetters + digits
	passwordAlphabet   = shareTokenAlphabet + symbols
)

// RandomString returns an unbiased string of length drawn from alphabet
// using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", ErrNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if alphabet == "" {
		return "", ErrEmptyAlphabet
	}

	value := make([]byte, length)
	for index := range value {
		position, err := randomIndex(len(alphabet))
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position]
	}
	return string(value), nil
}

// NewShareToken returns a URL-safe token for public partner links.
func NewShareToken() (string, error) {
	return RandomString(ShareTokenLength, shareTokenAlphabet)
}

// NewTemporaryPassword always contains a lower case letter, an upper case
// letter and a digit so it passes the account password rules.
func NewTemporaryPassword() (string, error) {
	password := make([]byte, 0, TemporaryPasswordLength)
	for _, required := range []string{lowerLetters, upperLetters, digits} {
		char, err := RandomString(1, required)
		if err != nil {
			return "", err
		}
		password = append(password, char[0])
	}

	rest, err := RandomString(TemporaryPasswordLength-len(password), passwordAlphabet)
	if err != nil {
		return "", err
	}
	password = append(password, rest...)

	for index := len(password) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return "", err
		}
		password[index], password[swap] = password[swap], password[index]
	}
	return string(password), nil
}

func randomIndex(size int) (int, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(size)))
	if err != nil {
		return 0, err
	}
	return int(position.Int64()), nil
}
