package access

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedGate() *Gate {
	return &Gate{Now: func() time.Time { return now }}
}

func subscriptionJournal() *record.Journal {
	return &record.Journal{
		ID:             1,
		PublishingMode: record.PublishingModeSubscription,
		InstitutionalSubscriptions: []*record.InstitutionalSubscription{
			{Institution: "Lehigh", Domain: "lehigh.edu", IPRanges: []string{"128.180.0.0/16"}, Active: true},
			{Institution: "Lapsed", Domain: "lapsed.example", IPRanges: []string{"10.0.0.1"}, Active: false},
		},
	}
}

func TestSubscriptionRequired(t *testing.T) {
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name  string
		mode  record.PublishingMode
		issue *record.Issue
		want  bool
	}{
		{"open journal", record.PublishingModeOpen, &record.Issue{ID: 1, AccessStatus: record.IssueAccessSubscription}, false},
		{"no issue", record.PublishingModeSubscription, nil, false},
		{"open issue", record.PublishingModeSubscription, &record.Issue{ID: 1, AccessStatus: record.IssueAccessOpen}, false},
		{"no open access date", record.PublishingModeSubscription, &record.Issue{ID: 1, AccessStatus: record.IssueAccessSubscription}, true},
		{"embargo passed", record.PublishingModeSubscription, &record.Issue{ID: 1, AccessStatus: record.IssueAccessSubscription, OpenAccessDate: &past}, false},
		{"embargo pending", record.PublishingModeSubscription, &record.Issue{ID: 1, AccessStatus: record.IssueAccessSubscription, OpenAccessDate: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := &record.Journal{ID: 1, PublishingMode: tt.mode}
			assert.Equal(t, tt.want, fixedGate().SubscriptionRequired(journal, tt.issue))
		})
	}
}

func TestCheck(t *testing.T) {
	issue := &record.Issue{ID: 7, AccessStatus: record.IssueAccessSubscription}

	tests := []struct {
		name    string
		actor   *record.Actor
		allowed bool
	}{
		{"anonymous", nil, false},
		{"reader off campus", &record.Actor{UserID: 3, Roles: []record.Role{record.RoleReader}, RemoteAddr: "203.0.113.9"}, false},
		{"manager", &record.Actor{UserID: 1, Roles: []record.Role{record.RoleManager}}, true},
		{"subscription manager", &record.Actor{Roles: []record.Role{record.RoleSubscriptionManager}}, true},
		{"author", &record.Actor{Roles: []record.Role{record.RoleAuthor}}, false},
		{"subscribed network", &record.Actor{RemoteAddr: "128.180.2.44:51234"}, true},
		{"subscribed domain", &record.Actor{RemoteHost: "lib.Lehigh.edu"}, true},
		{"lookalike domain", &record.Actor{RemoteHost: "notlehigh.edu"}, false},
		{"inactive subscription", &record.Actor{RemoteAddr: "10.0.0.1", RemoteHost: "www.lapsed.example"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fixedGate().Check(tt.actor, subscriptionJournal(), issue)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, format.ErrCannotDisseminate))
		})
	}
}

func TestCheckOpenJournal(t *testing.T) {
	journal := &record.Journal{ID: 2, PublishingMode: record.PublishingModeOpen}
	issue := &record.Issue{ID: 1, AccessStatus: record.IssueAccessSubscription}
	assert.NoError(t, fixedGate().Check(nil, journal, issue))
}

func TestMatchIPRange(t *testing.T) {
	tests := []struct {
		addr    string
		ipRange string
		want    bool
	}{
		{"192.168.1.10", "192.168.1.10", true},
		{"192.168.1.11", "192.168.1.10", false},
		{"192.168.1.10", "192.168.*.*", true},
		{"192.169.1.10", "192.168.*.*", false},
		{"10.0.0.50", "10.0.0.1 - 10.0.0.100", true},
		{"10.0.0.150", "10.0.0.1 - 10.0.0.100", false},
		{"172.16.5.4", "172.16.0.0/12", true},
		{"172.32.0.1", "172.16.0.0/12", false},
		{"2001:db8::1", "2001:db8::/32", true},
		{"2001:db8::1", "10.0.0.0/8", false},
		{"10.0.0.1", "not an address", false},
		{"10.0.0.1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr+" in "+tt.ipRange, func(t *testing.T) {
			addr := netip.MustParseAddr(tt.addr)
			assert.Equal(t, tt.want, MatchIPRange(addr, tt.ipRange))
		})
	}
}

func TestAllowedPrePublicationAccess(t *testing.T) {
	assert.False(t, AllowedPrePublicationAccess(nil))
	assert.False(t, AllowedPrePublicationAccess(&record.Actor{Roles: []record.Role{record.RoleReader}}))
	assert.True(t, AllowedPrePublicationAccess(&record.Actor{Roles: []record.Role{record.RoleReader, record.RoleAssistant}}))
	assert.True(t, AllowedPrePublicationAccess(&record.Actor{Roles: []record.Role{record.RoleSiteAdmin}}))
}
