// Package record provides the read-only view of the host's journal, issue,
// section and article data that an OAI record is built from.
package record

import (
	"sort"
	"time"
)

// Localized holds one value per locale, keyed by host locale (e.g. "en_US").
type Localized map[string]string

// Get returns the value for a locale, or "" when it is not set.
func (l Localized) Get(locale string) string {
	if l == nil {
		return ""
	}
	return l[locale]
}

// Best returns the value for the first of the given locales that has a
// non-empty value, falling back to any value in locale order.
func (l Localized) Best(locales ...string) string {
	for _, locale := range locales {
		if v := l.Get(locale); v != "" {
			return v
		}
	}
	for _, locale := range l.Locales() {
		if v := l[locale]; v != "" {
			return v
		}
	}
	return ""
}

// Locales returns the locales of l. Locales listed in preferred come first in
// that order, the rest follow sorted, so output built from a map is stable.
func (l Localized) Locales(preferred ...string) []string {
	return orderLocales(l, preferred)
}

func orderLocales[V any](m map[string]V, preferred []string) []string {
	result := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, locale := range preferred {
		if _, ok := m[locale]; ok && !seen[locale] {
			result = append(result, locale)
			seen[locale] = true
		}
	}
	var rest []string
	for locale := range m {
		if !seen[locale] {
			rest = append(rest, locale)
		}
	}
	sort.Strings(rest)
	return append(result, rest...)
}

// Record is a single harvestable article together with its context.
type Record struct {
	Journal *Journal
	Article *Article
	Section *Section
	Issue   *Issue
	Galleys []*Galley
}

// PublishingMode is how a journal makes its content available.
type PublishingMode string

const (
	PublishingModeOpen         PublishingMode = "open"
	PublishingModeSubscription PublishingMode = "subscription"
	PublishingModeNone         PublishingMode = "none"
)

// Journal is the publishing context of an article.
type Journal struct {
	ID                         int                         `yaml:"id"`
	Path                       string                      `yaml:"path"`
	Name                       Localized                   `yaml:"name"`
	Acronym                    Localized                   `yaml:"acronym,omitempty"`
	PrimaryLocale              string                      `yaml:"primary_locale"`
	SupportedLocales           []string                    `yaml:"supported_locales"`
	OnlineISSN                 string                      `yaml:"online_issn,omitempty"`
	PrintISSN                  string                      `yaml:"print_issn,omitempty"`
	PublisherName              string                      `yaml:"publisher_name,omitempty"`
	PublishingMode             PublishingMode              `yaml:"publishing_mode,omitempty"`
	InstitutionalSubscriptions []*InstitutionalSubscription `yaml:"institutional_subscriptions,omitempty"`
}

// InstitutionalSubscription grants access to requests coming from an
// institution's network.
type InstitutionalSubscription struct {
	Institution string   `yaml:"institution"`
	Domain      string   `yaml:"domain,omitempty"`
	IPRanges    []string `yaml:"ip_ranges,omitempty"`
	Active      bool     `yaml:"active"`
}

// Article is a submission with its current publication.
type Article struct {
	ID                 int          `yaml:"id"`
	ContextID          int          `yaml:"context_id"`
	Locale             string       `yaml:"locale"`
	CurrentPublication *Publication `yaml:"publication"`
}

// BestID returns the public URL path of the article if set, otherwise its ID.
func (a *Article) BestID() string {
	if p := a.CurrentPublication; p != nil && p.URLPath != "" {
		return p.URLPath
	}
	return itoa(a.ID)
}

// Publication is one version of an article's metadata.
type Publication struct {
	ID              int                 `yaml:"id"`
	SectionID       int                 `yaml:"section_id"`
	IssueID         int                 `yaml:"issue_id"`
	URLPath         string              `yaml:"url_path,omitempty"`
	DatePublished   *time.Time          `yaml:"date_published,omitempty"`
	Title           Localized           `yaml:"title"`
	Subtitle        Localized           `yaml:"subtitle,omitempty"`
	Abstract        Localized           `yaml:"abstract,omitempty"`
	Keywords        map[string][]string `yaml:"keywords,omitempty"`
	CopyrightHolder Localized           `yaml:"copyright_holder,omitempty"`
	CopyrightYear   string              `yaml:"copyright_year,omitempty"`
	LicenseURL      string              `yaml:"license_url,omitempty"`
	Seq             int                 `yaml:"seq"`
	DOI             string              `yaml:"doi,omitempty"`
	Pages           string              `yaml:"pages,omitempty"`
	Authors         []*Author           `yaml:"authors,omitempty"`
	Citations       []string            `yaml:"citations,omitempty"`
}

// KeywordLocales returns the locales that carry keywords, preferred first.
func (p *Publication) KeywordLocales(preferred ...string) []string {
	return orderLocales(p.Keywords, preferred)
}

// Author is a credited contributor of a publication.
type Author struct {
	ID             int       `yaml:"id"`
	GivenName      Localized `yaml:"given_name"`
	FamilyName     Localized `yaml:"family_name,omitempty"`
	Email          string    `yaml:"email,omitempty"`
	Affiliation    Localized `yaml:"affiliation,omitempty"`
	ORCID          string    `yaml:"orcid,omitempty"`
	Country        string    `yaml:"country,omitempty"`
	PrimaryContact bool      `yaml:"primary_contact,omitempty"`
	Seq            int       `yaml:"seq"`
}

// Galley is a published rendition of an article.
type Galley struct {
	ID               int    `yaml:"id"`
	PublicationID    int    `yaml:"publication_id"`
	SubmissionFileID int    `yaml:"submission_file_id,omitempty"`
	URLRemote        string `yaml:"url_remote,omitempty"`
	FileType         string `yaml:"file_type,omitempty"`
	Label            string `yaml:"label"`
	Locale           string `yaml:"locale,omitempty"`
}

// IssueAccess is the access status of an issue.
type IssueAccess string

const (
	IssueAccessOpen         IssueAccess = "open"
	IssueAccessSubscription IssueAccess = "subscription"
)

// Issue groups published articles.
type Issue struct {
	ID             int         `yaml:"id"`
	Volume         string      `yaml:"volume,omitempty"`
	Number         string      `yaml:"number,omitempty"`
	Year           int         `yaml:"year,omitempty"`
	ShowVolume     bool        `yaml:"show_volume"`
	ShowNumber     bool        `yaml:"show_number"`
	ShowYear       bool        `yaml:"show_year"`
	ShowTitle      bool        `yaml:"show_title"`
	Title          Localized   `yaml:"title,omitempty"`
	DatePublished  *time.Time  `yaml:"date_published,omitempty"`
	CoverImageURL  Localized   `yaml:"cover_image_url,omitempty"`
	AccessStatus   IssueAccess `yaml:"access_status,omitempty"`
	OpenAccessDate *time.Time  `yaml:"open_access_date,omitempty"`
}

// Section is the journal section an article belongs to.
type Section struct {
	ID           int       `yaml:"id"`
	Title        Localized `yaml:"title"`
	IdentifyType Localized `yaml:"identify_type,omitempty"`
}
