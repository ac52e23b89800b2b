package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyHMAC(t *testing.T) {
	v := NewVerifier("process-key")
	digest := EncodeDigest(v.ComputeDigest("abc123", "s1"))
	rec := DigestRecord{Scheme: SchemeHMACSHA256, Digest: digest, Salt: "s1"}

	tests := []struct {
		name      string
		submitted string
		rec       DigestRecord
		want      bool
	}{
		{
			name:      "correct secret",
			submitted: "abc123",
			rec:       rec,
			want:      true,
		},
		{
			name:      "last byte differs",
			submitted: "abc124",
			rec:       rec,
			want:      false,
		},
		{
			name:      "first byte differs",
			submitted: "bbc123",
			rec:       rec,
			want:      false,
		},
		{
			name:      "empty secret",
			submitted: "",
			rec:       rec,
			want:      false,
		},
		{
			name:      "wrong salt",
			submitted: "abc123",
			rec:       DigestRecord{Scheme: SchemeHMACSHA256, Digest: digest, Salt: "s2"},
			want:      false,
		},
		{
			name:      "malformed digest hex",
			submitted: "abc123",
			rec:       DigestRecord{Scheme: SchemeHMACSHA256, Digest: "not-hex", Salt: "s1"},
			want:      false,
		},
		{
			name:      "unknown scheme",
			submitted: "abc123",
			rec:       DigestRecord{Scheme: "md5", Digest: digest, Salt: "s1"},
			want:      false,
		},
		{
			name:      "empty scheme defaults to hmac",
			submitted: "abc123",
			rec:       DigestRecord{Digest: digest, Salt: "s1"},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Verify(tt.submitted, tt.rec); got != tt.want {
				t.Fatalf("Verify(%q) = %v, want %v", tt.submitted, got, tt.want)
			}
		})
	}
}

func TestVerifyEveryBytePosition(t *testing.T) {
	v := NewVerifier("key")
	secret := "correct-horse"
	digest := EncodeDigest(v.ComputeDigest(secret, "salt"))
	rec := DigestRecord{Scheme: SchemeHMACSHA256, Digest: digest, Salt: "salt"}

	for i := 0; i < len(secret); i++ {
		mutated := []byte(secret)
		mutated[i] ^= 0x01
		if v.Verify(string(mutated), rec) {
			t.Errorf("secret differing at byte %d verified as true", i)
		}
	}
}

func TestVerifyBcryptScheme(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("s1abc123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	v := NewVerifier("unused-for-bcrypt")
	rec := DigestRecord{Scheme: SchemeBcrypt, Digest: string(hashed), Salt: "s1"}

	if !v.Verify("abc123", rec) {
		t.Fatal("correct secret rejected under bcrypt scheme")
	}
	if v.Verify("abc124", rec) {
		t.Fatal("wrong secret accepted under bcrypt scheme")
	}
}
