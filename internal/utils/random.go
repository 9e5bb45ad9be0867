package utils

import (
	"crypto/rand"
	"math/big"
)

const numberBytes = "0123456789"

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

// GenerateSecurityCode returns the 4-digit code shown to the passenger and
// relayed to the recipient at handoff. It is never validated programmatically.
func GenerateSecurityCode() string {
	return GenerateRandomNumericString(SecurityCodeLength)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}
