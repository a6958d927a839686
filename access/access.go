// Package access decides whether a requester may receive an article's
// full metadata.
package access

import (
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

// prePublicationRoles may see subscription content and unpublished
// details such as author email addresses.
var prePublicationRoles = []record.Role{
	record.RoleSiteAdmin,
	record.RoleManager,
	record.RoleSubEditor,
	record.RoleAssistant,
	record.RoleSubscriptionManager,
}

// Gate guards subscription content.
type Gate struct {
	// Now returns the current time; open-access dates are compared to it.
	Now func() time.Time
}

// NewGate returns a gate using the wall clock.
func NewGate() *Gate {
	return &Gate{Now: time.Now}
}

// Check returns nil when actor may receive articles of issue, and a
// format.ErrCannotDisseminate error otherwise. Articles outside an issue
// are never gated.
func (g *Gate) Check(actor *record.Actor, journal *record.Journal, issue *record.Issue) error {
	if !g.SubscriptionRequired(journal, issue) {
		return nil
	}
	if AllowedPrePublicationAccess(actor) {
		return nil
	}
	if SubscribedDomain(actor, journal) {
		return nil
	}
	slog.Debug("denying subscription content", "journal", journal.ID, "issue", issue.ID)
	return format.CannotDisseminate("subscription required")
}

// SubscriptionRequired reports whether articles in issue are restricted to
// subscribers: the journal sells subscriptions, the issue is not open
// access, and its open-access date is unset or still in the future.
func (g *Gate) SubscriptionRequired(journal *record.Journal, issue *record.Issue) bool {
	if journal == nil || issue == nil {
		return false
	}
	if journal.PublishingMode != record.PublishingModeSubscription {
		return false
	}
	if issue.AccessStatus == record.IssueAccessOpen {
		return false
	}
	if issue.OpenAccessDate == nil {
		return true
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return issue.OpenAccessDate.After(now())
}

// AllowedPrePublicationAccess reports whether actor holds a role with
// access to unpublished and subscription content.
func AllowedPrePublicationAccess(actor *record.Actor) bool {
	return actor.HasRole(prePublicationRoles...)
}

// SubscribedDomain reports whether the request comes from the domain or an
// IP range of one of the journal's active institutional subscriptions.
func SubscribedDomain(actor *record.Actor, journal *record.Journal) bool {
	if actor == nil || journal == nil {
		return false
	}
	addr, hasAddr := parseRemoteAddr(actor.RemoteAddr)
	host := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(actor.RemoteHost)), ".")

	for _, sub := range journal.InstitutionalSubscriptions {
		if !sub.Active {
			continue
		}
		if host != "" && matchDomain(host, sub.Domain) {
			return true
		}
		if !hasAddr {
			continue
		}
		for _, r := range sub.IPRanges {
			if MatchIPRange(addr, r) {
				return true
			}
		}
	}
	return false
}

func matchDomain(host, domain string) bool {
	domain = strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func parseRemoteAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// MatchIPRange reports whether addr falls in an institutional IP range
// written as a single address, a CIDR prefix, an "a - b" range, or an IPv4
// address with "*" octets. Unparseable ranges never match.
func MatchIPRange(addr netip.Addr, ipRange string) bool {
	ipRange = strings.TrimSpace(ipRange)
	switch {
	case ipRange == "":
		return false
	case strings.Contains(ipRange, "/"):
		prefix, err := netip.ParsePrefix(ipRange)
		return err == nil && prefix.Contains(addr)
	case strings.Contains(ipRange, "-"):
		lo, hi, _ := strings.Cut(ipRange, "-")
		return inRange(addr, strings.TrimSpace(lo), strings.TrimSpace(hi))
	case strings.Contains(ipRange, "*"):
		return inRange(addr, strings.ReplaceAll(ipRange, "*", "0"), strings.ReplaceAll(ipRange, "*", "255"))
	default:
		want, err := netip.ParseAddr(ipRange)
		return err == nil && want.Unmap() == addr
	}
}

func inRange(addr netip.Addr, lo, hi string) bool {
	start, err := netip.ParseAddr(lo)
	if err != nil {
		return false
	}
	end, err := netip.ParseAddr(hi)
	if err != nil {
		return false
	}
	start, end = start.Unmap(), end.Unmap()
	if start.BitLen() != addr.BitLen() || end.BitLen() != addr.BitLen() {
		return false
	}
	return addr.Compare(start) >= 0 && addr.Compare(end) <= 0
}
