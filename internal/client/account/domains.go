package account

import "strings"

// DomainSet is an immutable set of accepted mail-provider domains.
type DomainSet struct {
	domains map[string]struct{}
}

// NewDomainSet builds a set from domains, lower-casing each entry.
func NewDomainSet(domains ...string) DomainSet {
	m := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		m[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return DomainSet{domains: m}
}

// DefaultDomains are the providers accepted at sign-up.
var DefaultDomains = NewDomainSet(
	"gmail.com",
	"googlemail.com",
	"yahoo.com",
	"ymail.com",
	"outlook.com",
	"hotmail.com",
	"live.com",
	"msn.com",
	"icloud.com",
	"me.com",
	"proton.me",
	"protonmail.com",
	"aol.com",
)

// Validate reports whether the part of email after the first '@' is an
// accepted domain. Comparison ignores case.
func (s DomainSet) Validate(email string) bool {
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return false
	}
	_, ok := s.domains[strings.ToLower(domain)]
	return ok
}

// Len returns the number of accepted domains.
func (s DomainSet) Len() int {
	return len(s.domains)
}
