package validators

import (
	"net"
	"net/mail"
	"strings"
)

// IsEmailFormatValid is the cheap syntactic check used on booking input.
func IsEmailFormatValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsEmailDomainValid checks that the address domain resolves. Used only
// where a network round-trip is acceptable (staff account creation), never
// on the public booking path.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
