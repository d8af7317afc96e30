package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHasher 单向哈希（bcrypt），Cost<=0 时使用 bcrypt.DefaultCost
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) *PasswordHasher { return &PasswordHasher{Cost: cost} }

func (h *PasswordHasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *PasswordHasher) Compare(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
