package report

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainReport separates report digests from any other SHA-256 use.
// The version suffix allows the body layout to change later.
const DomainReport = "assetcare/report/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
