// Package fulfillment turns approved orders into deliverable credentials.
// Each credential is rendered as an AES-encrypted QR image embedded in the
// delivery email, so the raw code never travels in plain text.
package fulfillment

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"time"

	"ms-storefront/internal/models"
	"ms-storefront/internal/utils"

	"github.com/skip2/go-qrcode"
)

// Credential kinds by product type.
const (
	KindGameKey       = "game_key"
	KindGiftCardCode  = "giftcard_code"
	KindAccountInvite = "account_invite"
	KindLicenseKey    = "license_key"
)

type IssuedCredential struct {
	Credential models.Credential `json:"credential"`
	QRPNG      []byte            `json:"qr_png"`
}

type CredentialIssuer struct {
	secret []byte
}

func NewCredentialIssuer(secret string) *CredentialIssuer {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &CredentialIssuer{secret: hashed[:]}
}

// Issue generates a delivery code for the order's product type and renders
// it as an encrypted QR.
func (c *CredentialIssuer) Issue(ord models.Order, item models.LineItem) (*IssuedCredential, error) {
	cred := models.Credential{
		OrderID:   ord.ID,
		ProductID: ord.ProductID,
		Kind:      kindFor(item.ProductType),
		Code:      utils.GenerateCredentialCode(),
		IssuedAt:  time.Now(),
	}

	png, err := c.encryptedQR(cred)
	if err != nil {
		return nil, err
	}
	return &IssuedCredential{Credential: cred, QRPNG: png}, nil
}

func kindFor(productType string) string {
	switch productType {
	case models.ProductTypeGame:
		return KindGameKey
	case models.ProductTypeGiftCard:
		return KindGiftCardCode
	case models.ProductTypeSubscription:
		return KindAccountInvite
	case models.ProductTypeSoftware:
		return KindLicenseKey
	default:
		return KindLicenseKey
	}
}

func (c *CredentialIssuer) encryptedQR(cred models.Credential) ([]byte, error) {
	data, err := json.Marshal(cred)
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, c.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}
