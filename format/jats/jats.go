// Package jats provides the JATS XML metadata format for OAI-PMH.
//
// A record is disseminated by locating a stored JATS document for the
// article (or synthesizing one from a template), patching it with the
// journal's current metadata and serializing the <article> element.
package jats

import (
	"fmt"
	"sync"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/oai-jats/access"
	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/record"
	"github.com/lehigh-university-libraries/oai-jats/settings"
)

const (
	// MetadataPrefix is the OAI metadata prefix of the format.
	MetadataPrefix = "jats"

	// SchemaURL is advertised by ListMetadataFormats.
	SchemaURL = "https://jats.nlm.nih.gov/publishing/0.4/xsd/JATS-journalpublishing0.xsd"

	// NamespaceURI is advertised by ListMetadataFormats.
	NamespaceURI = "http://jats.nlm.nih.gov"

	// ArticleNamespace is set as the default namespace of emitted articles.
	ArticleNamespace = "https://jats.nlm.nih.gov/publishing/1.1/"

	// XLinkNamespace is bound to the xlink prefix used by link attributes.
	XLinkNamespace = "http://www.w3.org/1999/xlink"

	// DTDVersion is the JATS version emitted articles declare.
	DTDVersion = "1.1"
)

// Services are the host lookups the format reads from.
type Services struct {
	Files     record.SubmissionFiles
	Storage   record.FileService
	Genres    record.Genres
	Directory record.Directory
}

// Format implements the JATS metadata format.
type Format struct {
	services Services
	settings settings.Store
	router   *Router
	gate     *access.Gate
	finders  []DocumentFinder

	genreMu sync.Mutex
	genres  map[int]*record.Genre
}

// Ensure Format implements the interfaces
var (
	_ format.Format       = (*Format)(nil)
	_ format.Disseminator = (*Format)(nil)
)

// Option configures a Format.
type Option func(*Format)

// WithDocumentFinder adds a finder that may supply a document when the
// stored files do not.
func WithDocumentFinder(df DocumentFinder) Option {
	return func(f *Format) {
		f.finders = append(f.finders, df)
	}
}

// WithGate replaces the default access gate.
func WithGate(g *access.Gate) Option {
	return func(f *Format) {
		f.gate = g
	}
}

// New creates the JATS format. The settings store may be nil, in which case
// every setting reads as unset.
func New(svc Services, store settings.Store, router *Router, opts ...Option) *Format {
	f := &Format{
		services: svc,
		settings: store,
		router:   router,
		gate:     access.NewGate(),
		genres:   make(map[int]*record.Genre),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Prefix returns the OAI metadata prefix.
func (f *Format) Prefix() string {
	return MetadataPrefix
}

// Schema returns the schema location.
func (f *Format) Schema() string {
	return SchemaURL
}

// Namespace returns the format namespace.
func (f *Format) Namespace() string {
	return NamespaceURI
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JATS XML (Journal Article Tag Suite v" + DTDVersion + ")"
}

// ForceTemplate reports whether a journal always uses the synthesized
// template instead of stored JATS files.
func (f *Format) ForceTemplate(contextID int) bool {
	if f.settings == nil {
		return false
	}
	return settings.Bool(f.settings, contextID, SettingForceTemplate)
}

// ToXML checks access, finds the JATS document, merges the record's
// metadata into it and returns the serialized <article> element.
func (f *Format) ToXML(rec *record.Record, actor *record.Actor) (string, error) {
	if err := f.gate.Check(actor, rec.Journal, rec.Issue); err != nil {
		return "", err
	}

	doc, err := f.FindJATS(rec)
	if err != nil {
		return "", err
	}

	opts := MergeOptions{
		Router:               f.router,
		Directory:            f.services.Directory,
		PrePublicationAccess: access.AllowedPrePublicationAccess(actor),
	}
	if err := Merge(doc, rec, opts); err != nil {
		return "", fmt.Errorf("merging metadata for article %d: %w", rec.Article.ID, err)
	}

	return SerializeArticle(doc)
}

// SerializeArticle returns the <article> element of doc without the XML
// declaration or anything outside the element.
func SerializeArticle(doc *etree.Document) (string, error) {
	article := doc.FindElement("//article")
	if article == nil {
		return "", ErrNoArticle
	}
	out := etree.NewDocument()
	out.SetRoot(article.Copy())
	s, err := out.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serializing article: %w", err)
	}
	return s, nil
}
