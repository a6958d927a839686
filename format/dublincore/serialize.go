package dublincore

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/oai-jats/helpers"
	"github.com/lehigh-university-libraries/oai-jats/locale"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

// ToXML returns the oai_dc:dc element for rec. Dublin Core carries only
// public metadata, so the requester does not change the output.
func (f *Format) ToXML(rec *record.Record, _ *record.Actor) (string, error) {
	if rec == nil || rec.Journal == nil || rec.Article == nil || rec.Article.CurrentPublication == nil {
		return "", fmt.Errorf("dublincore: record needs a journal, an article and its current publication")
	}

	output, err := xml.Marshal(f.recordToXML(rec))
	if err != nil {
		return "", fmt.Errorf("marshaling article %d: %w", rec.Article.ID, err)
	}
	return string(output), nil
}

// recordToXML maps an article to Dublin Core elements.
func (f *Format) recordToXML(rec *record.Record) *XMLRecord {
	journal := rec.Journal
	article := rec.Article
	pub := article.CurrentPublication
	preferred := append([]string{article.Locale, journal.PrimaryLocale}, journal.SupportedLocales...)

	xmlRec := &XMLRecord{
		XmlnsOAIDC:     NamespaceURI,
		XmlnsDC:        "http://purl.org/dc/elements/1.1/",
		XmlnsXSI:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: NamespaceURI + " " + SchemaURL,
	}

	// Title
	for _, loc := range pub.Title.Locales(preferred...) {
		title := helpers.StripHTML(pub.Title[loc])
		if sub := helpers.StripHTML(pub.Subtitle.Get(loc)); sub != "" {
			title += ": " + sub
		}
		if title != "" {
			xmlRec.Title = append(xmlRec.Title, localized(loc, title))
		}
	}

	// Creators
	for _, a := range pub.Authors {
		name := a.FamilyName.Best(preferred...)
		if given := a.GivenName.Best(preferred...); given != "" {
			if name != "" {
				name += ", "
			}
			name += given
		}
		if name != "" {
			xmlRec.Creator = append(xmlRec.Creator, name)
		}
	}

	// Subjects
	for _, loc := range pub.KeywordLocales(preferred...) {
		for _, kw := range pub.Keywords[loc] {
			if kw = strings.TrimSpace(kw); kw != "" {
				xmlRec.Subject = append(xmlRec.Subject, localized(loc, kw))
			}
		}
	}

	// Description/Abstract
	for _, loc := range pub.Abstract.Locales(preferred...) {
		if abstract := helpers.StripHTML(pub.Abstract[loc]); abstract != "" {
			xmlRec.Description = append(xmlRec.Description, localized(loc, abstract))
		}
	}

	// Publisher
	publisher := journal.PublisherName
	if publisher == "" {
		publisher = journal.Name.Best(preferred...)
	}
	if publisher != "" {
		xmlRec.Publisher = []string{publisher}
	}

	// Date
	if pub.DatePublished != nil {
		xmlRec.Date = []string{pub.DatePublished.Format("2006-01-02")}
	}

	// Type
	xmlRec.Type = []localizedString{{Value: "info:eu-repo/semantics/article"}}
	if rec.Section != nil {
		if identifyType := helpers.StripHTML(rec.Section.IdentifyType.Best(preferred...)); identifyType != "" {
			xmlRec.Type = append(xmlRec.Type, localized(article.Locale, identifyType))
		}
	}

	// Format
	for _, g := range rec.Galleys {
		if g.FileType != "" && !contains(xmlRec.Format, g.FileType) {
			xmlRec.Format = append(xmlRec.Format, g.FileType)
		}
	}

	// Identifiers
	if f.Links != nil {
		xmlRec.Identifier = append(xmlRec.Identifier, f.Links(journal.Path, article.BestID()))
	}
	if doi := strings.TrimSpace(pub.DOI); doi != "" {
		xmlRec.Identifier = append(xmlRec.Identifier, "https://doi.org/"+strings.TrimPrefix(doi, "https://doi.org/"))
	}

	// Source
	source := journal.Name.Best(preferred...)
	if issue := rec.Issue; issue != nil {
		var parts []string
		if issue.ShowVolume && issue.Volume != "" {
			parts = append(parts, "Vol. "+issue.Volume)
		}
		if issue.ShowNumber && issue.Number != "" {
			parts = append(parts, "No. "+issue.Number)
		}
		if issue.ShowYear && issue.Year != 0 {
			parts = append(parts, fmt.Sprintf("(%d)", issue.Year))
		}
		if len(parts) > 0 {
			source += "; " + strings.Join(parts, " ")
		}
	}
	if pub.Pages != "" {
		source += "; " + pub.Pages
	}
	if source != "" {
		xmlRec.Source = append(xmlRec.Source, source)
	}
	for _, issn := range []string{journal.OnlineISSN, journal.PrintISSN} {
		if issn != "" {
			xmlRec.Source = append(xmlRec.Source, issn)
		}
	}

	// Language
	if article.Locale != "" {
		xmlRec.Language = []string{locale.XMLLang(article.Locale)}
	}

	// Rights
	year := pub.CopyrightYear
	if year == "" && pub.DatePublished != nil {
		year = pub.DatePublished.Format("2006")
	}
	for _, loc := range pub.CopyrightHolder.Locales(preferred...) {
		if holder := strings.TrimSpace(pub.CopyrightHolder[loc]); holder != "" {
			statement := locale.Translate(loc, locale.KeyCopyrightStatement, year, holder)
			xmlRec.Rights = append(xmlRec.Rights, localized(loc, statement))
		}
	}
	if pub.LicenseURL != "" {
		xmlRec.Rights = append(xmlRec.Rights, localizedString{Value: pub.LicenseURL})
	}

	return xmlRec
}

func localized(loc, value string) localizedString {
	return localizedString{Lang: locale.ToBCP47(loc), Value: value}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// XML types for Dublin Core marshaling.

// XMLRecord represents the oai_dc:dc element.
type XMLRecord struct {
	XMLName        xml.Name `xml:"oai_dc:dc"`
	XmlnsOAIDC     string   `xml:"xmlns:oai_dc,attr"`
	XmlnsDC        string   `xml:"xmlns:dc,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	Title       []localizedString `xml:"dc:title,omitempty"`
	Creator     []string          `xml:"dc:creator,omitempty"`
	Subject     []localizedString `xml:"dc:subject,omitempty"`
	Description []localizedString `xml:"dc:description,omitempty"`
	Publisher   []string          `xml:"dc:publisher,omitempty"`
	Contributor []string          `xml:"dc:contributor,omitempty"`
	Date        []string          `xml:"dc:date,omitempty"`
	Type        []localizedString `xml:"dc:type,omitempty"`
	Format      []string          `xml:"dc:format,omitempty"`
	Identifier  []string          `xml:"dc:identifier,omitempty"`
	Source      []string          `xml:"dc:source,omitempty"`
	Language    []string          `xml:"dc:language,omitempty"`
	Relation    []string          `xml:"dc:relation,omitempty"`
	Coverage    []string          `xml:"dc:coverage,omitempty"`
	Rights      []localizedString `xml:"dc:rights,omitempty"`
}

// localizedString is an element value with an optional xml:lang.
type localizedString struct {
	Lang  string `xml:"xml:lang,attr,omitempty"`
	Value string `xml:",chardata"`
}
