package passwordresettoken

import (
	"crypto/rand"
	"encoding/hex"
	"gatekeeper/internal/core/domain/user"
	"io"
)

// 16 random bytes, 32 hex characters on the wire.
const tokenByteLength = 16

type Generator struct {
	rand io.Reader
}

func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorWithSource is used by tests to simulate entropy exhaustion.
func NewGeneratorWithSource(source io.Reader) *Generator {
	return &Generator{rand: source}
}

func (g *Generator) GeneratePasswordResetToken() (user.PasswordResetToken, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", user.ErrEntropyUnavailable
	}
	return user.PasswordResetToken(hex.EncodeToString(buf)), nil
}
