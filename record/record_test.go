package record

import (
	"slices"
	"testing"
)

func TestLocalizedBest(t *testing.T) {
	l := Localized{"en_US": "Articles", "fr_CA": "Articles FR", "de_DE": ""}

	tests := []struct {
		name    string
		locales []string
		want    string
	}{
		{"first preferred", []string{"fr_CA", "en_US"}, "Articles FR"},
		{"skips empty", []string{"de_DE", "en_US"}, "Articles"},
		{"falls back to any", []string{"es_ES"}, "Articles"},
		{"no preference", nil, "Articles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Best(tt.locales...); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	var empty Localized
	if got := empty.Best("en_US"); got != "" {
		t.Errorf("nil Localized: got %q", got)
	}
}

func TestLocalizedLocales(t *testing.T) {
	l := Localized{"es_ES": "c", "en_US": "a", "fr_CA": "b", "de_DE": "d"}

	got := l.Locales("fr_CA", "it_IT", "fr_CA")
	want := []string{"fr_CA", "de_DE", "en_US", "es_ES"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestKeywordLocales(t *testing.T) {
	p := &Publication{Keywords: map[string][]string{"fr_CA": {"histoire"}, "en_US": {"history"}}}
	if got := p.KeywordLocales("en_US"); !slices.Equal(got, []string{"en_US", "fr_CA"}) {
		t.Errorf("got %v", got)
	}
}

func TestBestID(t *testing.T) {
	a := &Article{ID: 12, CurrentPublication: &Publication{}}
	if got := a.BestID(); got != "12" {
		t.Errorf("without URL path: got %q", got)
	}
	a.CurrentPublication.URLPath = "canal-study"
	if got := a.BestID(); got != "canal-study" {
		t.Errorf("with URL path: got %q", got)
	}
}

func TestActorHasRole(t *testing.T) {
	var anonymous *Actor
	if anonymous.HasRole(RoleReader) {
		t.Errorf("nil actor has no roles")
	}
	a := &Actor{Roles: []Role{RoleAuthor, RoleAssistant}}
	if !a.HasRole(RoleManager, RoleAssistant) {
		t.Errorf("expected assistant role to match")
	}
	if a.HasRole(RoleManager) {
		t.Errorf("unexpected manager role")
	}
}
