package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// RandomHex 返回 n 个随机字节的 hex 编码（长度 2n）
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewID 按时间有序的 UUIDv7，失败时退回 v4
func NewID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
