package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Digest schemes supported by Verify.
const (
	SchemeHMACSHA256 = "hmac-sha256"
	SchemeBcrypt     = "bcrypt"
)

// DigestRecord holds the keyed digest of a school credential. The plaintext
// secret is never stored or transmitted; only the digest, its salt, and the
// scheme that produced it.
type DigestRecord struct {
	Scheme string
	Digest string
	Salt   string
}

// Verifier validates submitted secrets against a stored digest record.
type Verifier struct {
	hmacKey []byte
}

// NewVerifier builds a verifier with the process HMAC key.
func NewVerifier(hmacKey string) *Verifier {
	return &Verifier{hmacKey: []byte(hmacKey)}
}

// Verify recomputes the keyed digest of the submitted secret and compares it
// to the stored digest in constant time, so comparison duration does not
// reveal the position of the first mismatching byte. Unknown schemes and
// malformed digests verify as false; Verify never errors and never logs the
// submitted secret.
func (v *Verifier) Verify(submitted string, rec DigestRecord) bool {
	switch rec.Scheme {
	case SchemeHMACSHA256, "":
		stored, err := hex.DecodeString(rec.Digest)
		if err != nil {
			return false
		}
		computed := v.ComputeDigest(submitted, rec.Salt)
		return subtle.ConstantTimeCompare(computed, stored) == 1
	case SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(rec.Digest), []byte(rec.Salt+submitted)) == nil
	default:
		return false
	}
}

// ComputeDigest returns HMAC-SHA256(key, salt||secret).
func (v *Verifier) ComputeDigest(secret, salt string) []byte {
	mac := hmac.New(sha256.New, v.hmacKey)
	mac.Write([]byte(salt))
	mac.Write([]byte(secret))
	return mac.Sum(nil)
}

// EncodeDigest renders a computed digest the way records store it.
func EncodeDigest(digest []byte) string {
	return hex.EncodeToString(digest)
}
