package jats

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/oai-jats/helpers"
	"github.com/lehigh-university-libraries/oai-jats/locale"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

// Template synthesizes a JATS document from the record's metadata when no
// stored JATS file qualifies. Fields the merge rewrites anyway (titles,
// abstracts, identifiers, dates) are left to Merge.
type Template struct{}

var _ DocumentFinder = Template{}

// FindJATS builds a document when there are no candidates and returns nil
// otherwise.
func (Template) FindJATS(rec *record.Record, candidates []*record.SubmissionFile) (*etree.Document, error) {
	if len(candidates) > 0 {
		return nil, nil
	}
	slog.Debug("synthesizing JATS from template", "submission", rec.Article.ID)
	return BuildTemplate(rec), nil
}

// BuildTemplate returns a minimal JATS document carrying the journal
// description, the authors and affiliations, the page range and the
// reference list of rec.
func BuildTemplate(rec *record.Record) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	article := doc.CreateElement("article")
	front := article.CreateElement("front")

	journal := rec.Journal
	pub := rec.Article.CurrentPublication
	preferred := []string{rec.Article.Locale, journal.PrimaryLocale}

	journalMeta := front.CreateElement("journal-meta")
	titleGroup := journalMeta.CreateElement("journal-title-group")
	for _, loc := range journal.Name.Locales(preferred...) {
		if name := strings.TrimSpace(journal.Name[loc]); name != "" {
			title := titleGroup.CreateElement("journal-title")
			title.CreateAttr("xml:lang", locale.XMLLang(loc))
			title.SetText(name)
		}
	}
	if acronym := journal.Acronym.Best(preferred...); acronym != "" {
		abbrev := titleGroup.CreateElement("abbrev-journal-title")
		abbrev.SetText(acronym)
	}
	if len(titleGroup.ChildElements()) == 0 {
		journalMeta.RemoveChild(titleGroup)
	}
	for _, issn := range []struct{ value, pubType, form string }{
		{journal.PrintISSN, "ppub", "print"},
		{journal.OnlineISSN, "epub", "electronic"},
	} {
		if issn.value != "" {
			el := journalMeta.CreateElement("issn")
			el.CreateAttr("pub-type", issn.pubType)
			el.CreateAttr("publication-format", issn.form)
			el.SetText(issn.value)
		}
	}
	if journal.PublisherName != "" {
		journalMeta.CreateElement("publisher").CreateElement("publisher-name").SetText(journal.PublisherName)
	}

	articleMeta := front.CreateElement("article-meta")
	articleMeta.CreateElement("title-group")
	if pub != nil {
		addAuthors(articleMeta, pub.Authors, preferred)
		addPages(articleMeta, pub.Pages)
		addReferences(article, pub.Citations)
	}

	return doc
}

func addAuthors(articleMeta *etree.Element, authors []*record.Author, preferred []string) {
	if len(authors) == 0 {
		return
	}

	group := articleMeta.CreateElement("contrib-group")
	group.CreateAttr("content-type", "author")

	affIDs := make(map[string]string)
	var affs []*etree.Element
	for _, author := range authors {
		contrib := group.CreateElement("contrib")
		contrib.CreateAttr("contrib-type", "person")
		if author.PrimaryContact {
			contrib.CreateAttr("corresp", "yes")
		}
		if author.ORCID != "" {
			id := contrib.CreateElement("contrib-id")
			id.CreateAttr("contrib-id-type", "orcid")
			id.CreateAttr("authenticated", "true")
			id.SetText(author.ORCID)
		}

		name := contrib.CreateElement("name")
		name.CreateAttr("name-style", "western")
		if surname := author.FamilyName.Best(preferred...); surname != "" {
			name.CreateElement("surname").SetText(surname)
		}
		name.CreateElement("given-names").SetText(author.GivenName.Best(preferred...))

		if author.Email != "" {
			contrib.CreateElement("email").SetText(author.Email)
		}

		affiliation := strings.TrimSpace(helpers.StripHTML(author.Affiliation.Best(preferred...)))
		if affiliation == "" {
			continue
		}
		key := affiliation + "\x00" + author.Country
		affID, ok := affIDs[key]
		if !ok {
			affID = "aff-" + strconv.Itoa(len(affIDs)+1)
			affIDs[key] = affID

			aff := etree.NewElement("aff")
			aff.CreateAttr("id", affID)
			aff.CreateElement("institution").SetText(affiliation)
			if author.Country != "" {
				country := aff.CreateElement("country")
				country.CreateAttr("country", author.Country)
				country.SetText(author.Country)
			}
			affs = append(affs, aff)
		}
		xref := contrib.CreateElement("xref")
		xref.CreateAttr("ref-type", "aff")
		xref.CreateAttr("rid", affID)
	}

	for _, aff := range affs {
		articleMeta.AddChild(aff)
	}
}

// addPages sets fpage and lpage from a page string such as "12-20" or "7".
func addPages(articleMeta *etree.Element, pages string) {
	pages = strings.TrimSpace(pages)
	if pages == "" {
		return
	}
	first, last, found := strings.Cut(pages, "-")
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first != "" {
		articleMeta.CreateElement("fpage").SetText(first)
	}
	if found && last != "" {
		articleMeta.CreateElement("lpage").SetText(last)
	}
	if found {
		articleMeta.CreateElement("page-range").SetText(first + "-" + last)
	}
}

func addReferences(article *etree.Element, citations []string) {
	var refs []string
	for _, c := range citations {
		if c = strings.TrimSpace(c); c != "" {
			refs = append(refs, c)
		}
	}
	if len(refs) == 0 {
		return
	}

	refList := article.CreateElement("back").CreateElement("ref-list")
	for i, c := range refs {
		ref := refList.CreateElement("ref")
		ref.CreateAttr("id", "R"+strconv.Itoa(i+1))
		ref.CreateElement("mixed-citation").SetText(c)
	}
}
