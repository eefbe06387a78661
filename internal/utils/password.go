package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored on an account.  The cost comes
// from configuration so production can run a slow work factor while tests
// use bcrypt.MinCost; out-of-range costs fall back to the bcrypt default.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.  It never
// reveals why a comparison failed; login treats every mismatch the same.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
