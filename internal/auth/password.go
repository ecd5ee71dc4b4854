package auth

import "golang.org/x/crypto/bcrypt"

// Passwords are stored only as bcrypt hashes; every hash carries its
// own random salt, so equal passwords produce different hashes.

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches the stored hash. A
// mismatch is a plain false, never an error; bcrypt's comparison does
// not leak where the mismatch occurs.
func VerifyPassword(plain, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)) == nil
}
