package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GeneratePaymentID returns a payment record id in the pay_<ts>_<rand> form
// the payment store indexes on.
func GeneratePaymentID() string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("pay_%d_%06d", timestamp, randomNum.Int64())
}

// GenerateCredentialCode returns a delivery code for manual fulfillment,
// e.g. gift-card codes, in grouped XXXX-XXXX-XXXX-XXXX form.
func GenerateCredentialCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, 19)
	for i := range code {
		if i == 4 || i == 9 || i == 14 {
			code[i] = '-'
			continue
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			code[i] = alphabet[0]
			continue
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code)
}
