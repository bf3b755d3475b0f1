package reservation

import (
	"crypto/rand"
	"regexp"
)

// Reservation codes are handed out of band (SMS, IoT check-in devices), so
// they stay short and unambiguous: a fixed prefix plus 8 uppercase
// alphanumerics. Uniqueness is enforced by the database constraint; the
// generator is only best-effort and callers regenerate on collision.
const (
	CodePrefix     = "PONABRI-"
	codeSuffixLen  = 8
	codeCharset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var codePattern = regexp.MustCompile(`^PONABRI-[A-Z0-9]{8}$`)

func NewCode() string {
	buf := make([]byte, codeSuffixLen)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return CodePrefix + string(buf)
}

func IsValidCode(code string) bool {
	return codePattern.MatchString(code)
}
