package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender is trusted. Entries are full addresses
// ("alice@example.com") or domains ("example.com" or "@example.com").
type Checker struct {
	addresses map[string]struct{}
	domains   map[string]struct{}
	logger    *zap.Logger
}

// NewChecker creates a new trusted sender checker
func NewChecker(entries []string, logger *zap.Logger) *Checker {
	c := &Checker{
		addresses: make(map[string]struct{}),
		domains:   make(map[string]struct{}),
		logger:    logger,
	}

	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		switch {
		case entry == "":
		case strings.HasPrefix(entry, "@"):
			c.domains[entry[1:]] = struct{}{}
		case strings.Contains(entry, "@"):
			c.addresses[entry] = struct{}{}
		default:
			c.domains[entry] = struct{}{}
		}
	}

	if c.Len() > 0 && logger != nil {
		logger.Info("Initialized trusted senders",
			zap.Int("addresses", len(c.addresses)),
			zap.Int("domains", len(c.domains)))
	}
	return c
}

// Len returns the number of trusted entries
func (c *Checker) Len() int {
	return len(c.addresses) + len(c.domains)
}

// IsTrusted reports whether from matches a trusted address or domain.
// from may be a bare address or carry a display name.
func (c *Checker) IsTrusted(from string) bool {
	if c.Len() == 0 {
		return false
	}

	addr := normalizeAddress(from)
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}

	if _, ok := c.addresses[addr]; ok {
		c.debug("Sender address is trusted", addr)
		return true
	}
	if _, ok := c.domains[addr[at+1:]]; ok {
		c.debug("Sender domain is trusted", addr)
		return true
	}
	return false
}

func (c *Checker) debug(msg, addr string) {
	if c.logger != nil {
		c.logger.Debug(msg, zap.String("email", addr))
	}
}

func normalizeAddress(from string) string {
	from = strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(from); err == nil {
		from = parsed.Address
	}
	return strings.ToLower(strings.Trim(from, "<>"))
}
