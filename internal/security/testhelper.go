package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"time"
)

// Test fixtures. Issuer and audience match across helpers so tokens from one validate on another
// built with the same secret.
const (
	testIssuer   = "test-issuer"
	testAudience = "test-audience"
	testSecret   = "test-secret"
)

var (
	testKeysOnce sync.Once
	testPrivPEM  string
	testPubPEM   string
)

// testKeyPair lazily generates one RSA key pair per test binary and returns it as
// PKCS#8 and PKIX PEM.
func testKeyPair() (privPEM, pubPEM string) {
	testKeysOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic("security: generate test key: " + err.Error())
		}
		privDER, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			panic("security: marshal test key: " + err.Error())
		}
		pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		if err != nil {
			panic("security: marshal test public key: " + err.Error())
		}
		testPrivPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}))
		testPubPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))
	})
	return testPrivPEM, testPubPEM
}

func testPrivatePEM() string {
	p, _ := testKeyPair()
	return p
}

func testPublicPEM() string {
	_, p := testKeyPair()
	return p
}

// NewTestTokenProvider returns an RS256 TokenProvider on a generated key pair. Tests only.
func NewTestTokenProvider() (*TokenProvider, error) {
	return NewProvider(SigningSettings{
		PrivateKeyPEM: testPrivatePEM(),
		PublicKeyPEM:  testPublicPEM(),
		Issuer:        testIssuer,
		Audience:      testAudience,
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

// NewTestHMACTokenProvider returns an HS256 TokenProvider with a fixed secret. Tests only.
func NewTestHMACTokenProvider() *TokenProvider {
	p, _ := NewHMACTokenProvider([]byte(testSecret), testIssuer, testAudience, time.Hour, 24*time.Hour)
	return p
}
