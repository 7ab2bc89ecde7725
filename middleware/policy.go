package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tallyboard/gateway/auth"
	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/logger"
	"github.com/tallyboard/gateway/core/response"
)

// Capability is the access tier a protected path prefix demands.
type Capability uint8

const (
	// CapabilityNone requires only an authenticated session.
	CapabilityNone Capability = iota
	// CapabilityAdmin requires the admin or super-admin role.
	CapabilityAdmin
	// CapabilitySuperAdmin requires the super-admin role.
	CapabilitySuperAdmin
)

// String returns the human-readable capability name, used in denial logs.
func (c Capability) String() string {
	switch c {
	case CapabilityNone:
		return "authenticated"
	case CapabilityAdmin:
		return "admin"
	case CapabilitySuperAdmin:
		return "superadmin"
	default:
		return fmt.Sprintf("capability(%d)", uint8(c))
	}
}

// Rule binds a path prefix to the capability required to enter it.
type Rule struct {
	Prefix     string
	Capability Capability
}

// Chain is an ordered list of policy rules evaluated first-match-wins.
// Paths that match no rule are open; protection is opt-in per prefix.
type Chain struct {
	rules []Rule
}

var (
	// ErrEmptyPrefix is returned when a rule has no path prefix.
	ErrEmptyPrefix = errors.New("policy rule has empty prefix")
	// ErrRelativePrefix is returned when a rule prefix does not start with a slash.
	ErrRelativePrefix = errors.New("policy rule prefix must start with /")
	// ErrDuplicatePrefix is returned when two rules claim the same prefix.
	ErrDuplicatePrefix = errors.New("duplicate policy rule prefix")
)

// NewChain validates the rule list at startup. Rule order is evaluation
// order, so a duplicate prefix means one of the two rules can never fire;
// that is a configuration bug, not something to paper over at runtime.
func NewChain(rules ...Rule) (*Chain, error) {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.Prefix == "" {
			return nil, ErrEmptyPrefix
		}
		if !strings.HasPrefix(r.Prefix, "/") {
			return nil, fmt.Errorf("%w: %q", ErrRelativePrefix, r.Prefix)
		}
		if _, dup := seen[r.Prefix]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePrefix, r.Prefix)
		}
		seen[r.Prefix] = struct{}{}
	}
	return &Chain{rules: rules}, nil
}

// MustNewChain is NewChain for wiring code where a bad rule list should
// stop the process.
func MustNewChain(rules ...Rule) *Chain {
	c, err := NewChain(rules...)
	if err != nil {
		panic(err)
	}
	return c
}

// Evaluate returns the first rule whose prefix covers path, on segment
// boundaries. The boolean reports whether any rule matched at all.
func (c *Chain) Evaluate(path string) (Rule, bool) {
	for _, r := range c.rules {
		if matchesPrefix(path, r.Prefix) {
			return r, true
		}
	}
	return Rule{}, false
}

// DefaultDeniedPath is where denied requests are sent.
const DefaultDeniedPath = "/access-denied"

// PolicyConfig configures the policy enforcement middleware.
type PolicyConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// Chain holds the ordered rules (required)
	Chain *Chain
	// DeniedPath receives denied requests (default: DefaultDeniedPath)
	DeniedPath string
	// Logger for structured logging (default: discard)
	Logger *slog.Logger
}

// Policy creates tier-based route protection from an ordered rule list.
// A request whose path matches a rule must carry at least the rule's
// capability; anonymous callers fail every matched rule, including
// CapabilityNone. Denials redirect rather than render an error, so a
// bookmarked admin URL lands a regular user on the denied page instead of
// a bare 403.
func Policy[C handler.Context](chain *Chain) handler.Middleware[C] {
	return PolicyWithConfig(PolicyConfig[C]{Chain: chain})
}

// PolicyWithConfig creates policy enforcement with custom configuration.
func PolicyWithConfig[C handler.Context](cfg PolicyConfig[C]) handler.Middleware[C] {
	if cfg.Chain == nil {
		panic("policy middleware: chain is required")
	}
	if cfg.DeniedPath == "" {
		cfg.DeniedPath = DefaultDeniedPath
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewDiscard()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			// The denied page itself must stay reachable or denials loop.
			path := ctx.Request().URL.Path
			if matchesPrefix(path, cfg.DeniedPath) {
				return next(ctx)
			}

			rule, matched := cfg.Chain.Evaluate(path)
			if !matched {
				return next(ctx)
			}

			principal, _ := GetPrincipal(ctx)
			if satisfies(principal, rule.Capability) {
				return next(ctx)
			}

			cfg.Logger.InfoContext(ctx, "request denied by policy",
				slog.String("path", path),
				slog.String("prefix", rule.Prefix),
				slog.String("required", rule.Capability.String()),
				slog.String("user_id", principal.UserID.String()),
			)
			return response.Redirect(cfg.DeniedPath)
		}
	}
}

func satisfies(p auth.Principal, c Capability) bool {
	if !p.IsAuthenticated() {
		return false
	}
	switch c {
	case CapabilitySuperAdmin:
		return p.IsSuperAdmin()
	case CapabilityAdmin:
		return p.IsAdmin()
	default:
		return true
	}
}
