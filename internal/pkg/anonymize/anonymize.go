// Package anonymize derives stable pseudonymous identifiers so the
// platform never stores raw voter IPs or searchable phone numbers.
package anonymize

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
)

// IPHash returns a short stable digest of an IP address. It is used to
// deduplicate votes without keeping the address itself.
func IPHash(ip string) string {
	sum := md5.Sum([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}

// PhoneHash returns a full-length digest of a normalized phone number,
// suitable for exact-match lookups.
func PhoneHash(phone string) string {
	sum := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:])
}
