package fulfillment

import (
	"testing"
	"time"

	"ms-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCredential(t *testing.T) {
	issuer := NewCredentialIssuer("test-secret")

	ord := models.Order{
		ID:        "ord-1",
		UserID:    "user-1",
		ProductID: "prod-1",
		CreatedAt: time.Now(),
	}
	item := models.LineItem{
		ID:          "li-1",
		ProductID:   "prod-1",
		ProductType: models.ProductTypeGame,
	}

	issued, err := issuer.Issue(ord, item)
	require.NoError(t, err)

	assert.Equal(t, "ord-1", issued.Credential.OrderID)
	assert.Equal(t, KindGameKey, issued.Credential.Kind)
	assert.Len(t, issued.Credential.Code, 19) // XXXX-XXXX-XXXX-XXXX
	assert.NotEmpty(t, issued.QRPNG)
}

func TestCredentialKindPerProductType(t *testing.T) {
	assert.Equal(t, KindGameKey, kindFor(models.ProductTypeGame))
	assert.Equal(t, KindGiftCardCode, kindFor(models.ProductTypeGiftCard))
	assert.Equal(t, KindAccountInvite, kindFor(models.ProductTypeSubscription))
	assert.Equal(t, KindLicenseKey, kindFor(models.ProductTypeSoftware))
	assert.Equal(t, KindLicenseKey, kindFor("unknown"))
}

func TestCredentialCodesAreUnique(t *testing.T) {
	issuer := NewCredentialIssuer("test-secret")
	ord := models.Order{ID: "ord-1", ProductID: "prod-1"}
	item := models.LineItem{ProductType: models.ProductTypeSoftware}

	a, err := issuer.Issue(ord, item)
	require.NoError(t, err)
	b, err := issuer.Issue(ord, item)
	require.NoError(t, err)

	assert.NotEqual(t, a.Credential.Code, b.Credential.Code)
}
