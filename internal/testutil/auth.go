package testutil

import (
	"crypto/rsa"
	"testing"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/auth"
)

// CreateTestVerifier returns a verifier that trusts tokens from GenerateTestJWT
// and the private key to sign them with.
func CreateTestVerifier(t *testing.T) (*auth.Verifier, *rsa.PrivateKey) {
	t.Helper()

	privateKey, publicKey := GenerateTestKeyPair(t)
	keys := auth.StaticKeys{TestKeyID: publicKey}

	return auth.NewVerifier(auth.Config{Issuer: TestIssuer}, keys), privateKey
}
