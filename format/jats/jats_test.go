package jats

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/oai-jats/access"
	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

func TestToXML(t *testing.T) {
	h := newFakeHost()
	f := New(h.services(), nil, testRouter(t))

	out, err := f.ToXML(testRecord(), nil)
	if err != nil {
		t.Fatalf("ToXML failed: %v", err)
	}
	if strings.HasPrefix(out, "<?xml") {
		t.Errorf("output must not carry the XML declaration")
	}
	if !strings.HasPrefix(out, "<article ") {
		t.Errorf("output must start with the article element, got %.40q", out)
	}
	if strings.Contains(out, "jane@example.org") {
		t.Errorf("anonymous output contains an author email")
	}
}

func TestToXMLPrePublicationAccess(t *testing.T) {
	h := newFakeHost()
	f := New(h.services(), nil, testRouter(t))

	tests := []struct {
		name  string
		actor *record.Actor
		email bool
	}{
		{"anonymous", nil, false},
		{"reader", &record.Actor{UserID: 5, Roles: []record.Role{record.RoleReader}}, false},
		{"author", &record.Actor{UserID: 6, Roles: []record.Role{record.RoleAuthor}}, false},
		{"section editor", &record.Actor{UserID: 3, Roles: []record.Role{record.RoleSubEditor}}, true},
		{"journal manager", &record.Actor{UserID: 1, Roles: []record.Role{record.RoleManager}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.ToXML(testRecord(), tt.actor)
			if err != nil {
				t.Fatalf("ToXML failed: %v", err)
			}
			if got := strings.Contains(out, "<email>jane@example.org</email>"); got != tt.email {
				t.Errorf("email present: got %v, want %v", got, tt.email)
			}
		})
	}
}

func TestToXMLSubscriptionDenied(t *testing.T) {
	h := newFakeHost()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	gate := &access.Gate{Now: func() time.Time { return now }}
	f := New(h.services(), nil, testRouter(t), WithGate(gate))

	rec := testRecord()
	rec.Journal.PublishingMode = record.PublishingModeSubscription
	rec.Issue.AccessStatus = record.IssueAccessSubscription

	out, err := f.ToXML(rec, &record.Actor{RemoteAddr: "203.0.113.7"})
	if !errors.Is(err, format.ErrCannotDisseminate) {
		t.Fatalf("got error %v, want ErrCannotDisseminate", err)
	}
	if out != "" {
		t.Errorf("denied request produced output: %q", out)
	}
	if h.reads != 0 {
		t.Errorf("stored files read %d times before the gate denied access", h.reads)
	}

	embargoEnded := now.Add(-time.Hour)
	rec.Issue.OpenAccessDate = &embargoEnded
	if _, err := f.ToXML(rec, nil); err != nil {
		t.Errorf("ToXML after the embargo ended: %v", err)
	}
}

func TestToXMLNotAvailable(t *testing.T) {
	h := newFakeHost()
	h.files = map[int]*record.SubmissionFile{}
	f := New(h.services(), nil, testRouter(t))

	_, err := f.ToXML(testRecord(), nil)
	if !errors.Is(err, format.ErrCannotDisseminate) {
		t.Fatalf("got error %v, want ErrCannotDisseminate", err)
	}
}

func TestFormatDescription(t *testing.T) {
	f := New(Services{}, nil, nil)

	if f.Prefix() != "jats" {
		t.Errorf("Prefix: got %q", f.Prefix())
	}
	if f.Schema() != "https://jats.nlm.nih.gov/publishing/0.4/xsd/JATS-journalpublishing0.xsd" {
		t.Errorf("Schema: got %q", f.Schema())
	}
	if f.Namespace() != "http://jats.nlm.nih.gov" {
		t.Errorf("Namespace: got %q", f.Namespace())
	}
	if f.ForceTemplate(1) {
		t.Errorf("ForceTemplate without a settings store should be false")
	}
}

func TestSerializeArticleDropsWrapper(t *testing.T) {
	doc := parseDoc(t, `<?xml version="1.0"?><wrapper><article><front/></article></wrapper>`)
	out, err := SerializeArticle(doc)
	if err != nil {
		t.Fatalf("SerializeArticle failed: %v", err)
	}
	if out != "<article><front/></article>" {
		t.Errorf("got %q", out)
	}

	if _, err := SerializeArticle(parseDoc(t, `<TEI/>`)); !errors.Is(err, ErrNoArticle) {
		t.Errorf("got error %v, want ErrNoArticle", err)
	}
}
