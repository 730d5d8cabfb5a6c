package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost 10 (the library default).
const hashCost = bcrypt.DefaultCost

// tempPasswordCharset excludes visually ambiguous characters
// (0/O, 1/l/I) so reset passwords survive being retyped from an email.
const tempPasswordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const TempPasswordLength = 12

func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// GenerateTempPassword samples n characters from the unambiguous
// charset using crypto/rand.
func GenerateTempPassword(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordCharset[idx.Int64()]
	}
	return string(buf), nil
}
