package order

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"

	"fulfillment/internal/pkg/errs"
)

const (
	codePrefix   = "ORD-"
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var codePattern = regexp.MustCompile(`^ORD-[A-Z0-9]{6}$`)

// Code is the human-facing order reference, ORD-XXXXXX over [A-Z0-9].
// Knowing the code is what grants read access to the tracking projection.
type Code string

// ParseCode validates the ORD-XXXXXX format.
func ParseCode(s string) (Code, error) {
	if !codePattern.MatchString(s) {
		return "", errs.NewValueIsInvalidErrorWithCause("orderCode", fmt.Errorf("%q does not match ORD-XXXXXX", s))
	}
	return Code(s), nil
}

func (c Code) String() string {
	return string(c)
}

// CodeGenerator produces candidate codes. Uniqueness is enforced by storage.
type CodeGenerator func() (Code, error)

// RandomCodeGenerator draws codes from crypto/rand.
func RandomCodeGenerator() CodeGenerator {
	return NewCodeGenerator(rand.Reader)
}

// NewCodeGenerator draws codes uniformly from src.
func NewCodeGenerator(src io.Reader) CodeGenerator {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))
	return func() (Code, error) {
		buf := make([]byte, 0, len(codePrefix)+codeLength)
		buf = append(buf, codePrefix...)
		for range codeLength {
			n, err := rand.Int(src, alphabetSize)
			if err != nil {
				return "", fmt.Errorf("generate order code: %w", err)
			}
			buf = append(buf, codeAlphabet[n.Int64()])
		}
		return Code(buf), nil
	}
}
