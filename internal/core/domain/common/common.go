package common

import (
	"fmt"
	"strings"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

type Email string

// Dots in the local part are insignificant for these providers.
var dotInsensitiveDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
}

// NewEmail normalizes a raw address so that lookups are keyed consistently:
// the whole address is lower-cased and, for dot-insensitive providers,
// dots are stripped from the local part.
func NewEmail(rawEmail string) Email {
	address := strings.ToLower(strings.TrimSpace(rawEmail))
	local, domain, found := strings.Cut(address, "@")
	if !found {
		return Email(address)
	}
	if _, ok := dotInsensitiveDomains[domain]; ok {
		local = strings.ReplaceAll(local, ".", "")
	}
	return Email(local + "@" + domain)
}
