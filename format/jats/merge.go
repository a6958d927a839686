package jats

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/oai-jats/helpers"
	"github.com/lehigh-university-libraries/oai-jats/locale"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

// MergeOptions carries what Merge needs beyond the record itself.
type MergeOptions struct {
	// Router builds self-uri links; links are skipped when nil
	Router *Router

	// Directory lists the editorial team; the team is skipped when nil
	Directory record.Directory

	// PrePublicationAccess keeps author email addresses in the output
	PrePublicationAccess bool
}

type merger struct {
	rec  *record.Record
	pub  *record.Publication
	opts MergeOptions

	article     *etree.Element
	articleMeta *etree.Element
	journalMeta *etree.Element
}

// Merge overwrites the bibliographic metadata in doc with the record's
// current values. Each field is located and rewritten in place, or inserted
// at its schema position when missing, so merging the same record into its
// own output changes nothing.
func Merge(doc *etree.Document, rec *record.Record, opts MergeOptions) error {
	if rec == nil || rec.Journal == nil || rec.Article == nil || rec.Article.CurrentPublication == nil {
		return errors.New("jats: record needs a journal, an article and its current publication")
	}

	article := doc.FindElement("//article")
	if article == nil {
		return ErrNoArticle
	}
	front := article.SelectElement("front")
	if front == nil {
		front = AddChildInOrder(article, etree.NewElement("front"))
	}
	articleMeta := front.SelectElement("article-meta")
	if articleMeta == nil {
		articleMeta = AddChildInOrder(front, etree.NewElement("article-meta"))
	}
	journalMeta := front.SelectElement("journal-meta")
	if journalMeta == nil {
		journalMeta = AddChildInOrder(front, etree.NewElement("journal-meta"))
	}

	m := &merger{
		rec:         rec,
		pub:         rec.Article.CurrentPublication,
		opts:        opts,
		article:     article,
		articleMeta: articleMeta,
		journalMeta: journalMeta,
	}

	m.articleAttributes()
	m.publicationDates()
	m.selfURIs()
	m.issueNumbering()
	if err := m.titles(); err != nil {
		return err
	}
	m.keywords()
	if err := m.abstracts(); err != nil {
		return err
	}
	m.identifiers()
	m.permissions()
	m.categories()
	m.sequence()
	m.issueIdentity()
	m.articleType()
	if err := m.editorialTeam(); err != nil {
		return err
	}
	if !opts.PrePublicationAccess {
		m.stripAuthorEmails()
	}
	return nil
}

func (m *merger) primaryLocale() string {
	return m.rec.Article.Locale
}

func (m *merger) supportedLocales() []string {
	return m.rec.Journal.SupportedLocales
}

func (m *merger) articleAttributes() {
	m.article.CreateAttr("xml:lang", locale.XMLLang(m.primaryLocale()))
	m.article.CreateAttr("dtd-version", DTDVersion)
	m.article.CreateAttr("specific-use", "eps-0.1")
	m.article.CreateAttr("xmlns", ArticleNamespace)
	m.article.CreateAttr("xmlns:xlink", XLinkNamespace)
}

// publicationDates sets the electronic publication date of the article and
// the collection date of its issue.
func (m *merger) publicationDates() {
	issue := m.rec.Issue
	published := m.pub.DatePublished

	if published != nil {
		dateNode := m.articleMeta.FindElement("pub-date[@date-type='pub'][@publication-format='epub']")
		if dateNode == nil {
			dateNode = bareEpubDate(m.articleMeta)
		}
		if dateNode != nil {
			clearChildren(dateNode)
		} else {
			dateNode = AddChildInOrder(m.articleMeta, etree.NewElement("pub-date"))
			dateNode.CreateAttr("date-type", "pub")
			dateNode.CreateAttr("publication-format", "epub")
		}
		dateNode.CreateElement("day").SetText(fmt.Sprintf("%02d", published.Day()))
		dateNode.CreateElement("month").SetText(fmt.Sprintf("%02d", int(published.Month())))
		dateNode.CreateElement("year").SetText(fmt.Sprintf("%04d", published.Year()))
	}

	issueYear := 0
	if issue != nil && issue.ShowYear {
		issueYear = issue.Year
	}
	if issueYear == 0 && issue != nil && issue.DatePublished != nil {
		issueYear = issue.DatePublished.Year()
	}
	if issueYear == 0 && published != nil {
		issueYear = published.Year()
	}
	if issueYear == 0 {
		return
	}

	dateNode := m.articleMeta.FindElement("pub-date[@date-type='collection']")
	if dateNode != nil {
		clearChildren(dateNode)
	} else {
		dateNode = AddChildInOrder(m.articleMeta, etree.NewElement("pub-date"))
		dateNode.CreateAttr("date-type", "collection")
	}
	dateNode.CreateElement("year").SetText(strconv.Itoa(issueYear))
}

// bareEpubDate returns a publication date that carries no
// publication-format, marking it as the electronic one.
func bareEpubDate(articleMeta *etree.Element) *etree.Element {
	for _, el := range articleMeta.FindElements("pub-date[@date-type='pub']") {
		if el.SelectAttr("publication-format") == nil {
			el.CreateAttr("publication-format", "epub")
			return el
		}
	}
	return nil
}

// selfURIs replaces all self-uri links with the landing page and one link
// per galley.
func (m *merger) selfURIs() {
	removeAll(m.articleMeta, "self-uri")
	if m.opts.Router == nil {
		return
	}

	journalPath := m.rec.Journal.Path
	bestID := m.rec.Article.BestID()

	uri := etree.NewElement("self-uri")
	uri.CreateAttr("xlink:href", m.opts.Router.ArticleURL(journalPath, bestID, 0))
	prev := insertAfter(m.articleMeta, nil, uri)

	for _, galley := range m.rec.Galleys {
		uri := etree.NewElement("self-uri")
		uri.CreateAttr("xlink:href", m.opts.Router.ArticleURL(journalPath, bestID, galley.ID))
		if galley.URLRemote == "" && galley.FileType != "" {
			uri.CreateAttr("content-type", galley.FileType)
		}
		prev = insertAfter(m.articleMeta, prev, uri)
	}
}

// issueNumbering sets volume, issue number and issue titles when the issue
// is configured to show them.
func (m *merger) issueNumbering() {
	issue := m.rec.Issue
	if issue == nil {
		return
	}

	if issue.ShowVolume {
		setText(m.findOrAdd(m.articleMeta, "volume"), issue.Volume)
	}
	if issue.ShowNumber {
		setText(m.findOrAdd(m.articleMeta, "issue"), issue.Number)
	}
	if issue.ShowTitle {
		removeAll(m.articleMeta, "issue-title")
		var prev *etree.Element
		for _, loc := range issue.Title.Locales(m.supportedLocales()...) {
			title := helpers.StripHTML(issue.Title[loc])
			if title == "" {
				continue
			}
			el := etree.NewElement("issue-title")
			el.SetText(title)
			el.CreateAttr("xml:lang", locale.XMLLang(loc))
			prev = insertAfter(m.articleMeta, prev, el)
		}
	}
}

// titles rebuilds the title group: the primary locale's title and subtitle
// followed by one translated group per other locale.
func (m *merger) titles() error {
	group := m.findOrAdd(m.articleMeta, "title-group")
	clearChildren(group)

	primary := m.primaryLocale()
	lang := locale.XMLLang(primary)

	title, err := inlineElement("article-title", m.pub.Title.Get(primary))
	if err != nil {
		return err
	}
	title.CreateAttr("xml:lang", lang)
	group.AddChild(title)

	if sub := m.pub.Subtitle.Get(primary); strings.TrimSpace(sub) != "" {
		subtitle, err := inlineElement("subtitle", sub)
		if err != nil {
			return err
		}
		subtitle.CreateAttr("xml:lang", lang)
		group.AddChild(subtitle)
	}

	for _, loc := range m.pub.Title.Locales(m.supportedLocales()...) {
		if loc == primary {
			continue
		}
		if helpers.SanitizeTitle(m.pub.Title[loc]) == "" {
			continue
		}

		trans := group.CreateElement("trans-title-group")
		trans.CreateAttr("xml:lang", locale.XMLLang(loc))

		transTitle, err := inlineElement("trans-title", m.pub.Title[loc])
		if err != nil {
			return err
		}
		trans.AddChild(transTitle)

		if sub := m.pub.Subtitle.Get(loc); strings.TrimSpace(sub) != "" {
			transSub, err := inlineElement("trans-subtitle", sub)
			if err != nil {
				return err
			}
			trans.AddChild(transSub)
		}
	}
	return nil
}

// keywords replaces the keyword groups with one group per locale the
// journal supports.
func (m *merger) keywords() {
	removeAll(m.articleMeta, "kwd-group")

	supported := m.supportedLocales()
	var prev *etree.Element
	for _, loc := range m.pub.KeywordLocales(supported...) {
		if len(supported) > 0 && !slices.Contains(supported, loc) {
			continue
		}
		var keywords []string
		for _, kw := range m.pub.Keywords[loc] {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			continue
		}

		group := etree.NewElement("kwd-group")
		group.CreateAttr("xml:lang", locale.XMLLang(loc))
		group.CreateElement("title").SetText(locale.Translate(loc, locale.KeySubject))
		for _, kw := range keywords {
			group.CreateElement("kwd").SetText(kw)
		}
		prev = insertAfter(m.articleMeta, prev, group)
	}
}

// abstracts replaces the abstracts: the primary locale's as <abstract>,
// the others as <trans-abstract xml:lang>.
func (m *merger) abstracts() error {
	removeAll(m.articleMeta, "abstract")
	removeAll(m.articleMeta, "trans-abstract")

	primary := m.primaryLocale()
	preferred := append([]string{primary}, m.supportedLocales()...)

	var prev *etree.Element
	for _, loc := range m.pub.Abstract.Locales(preferred...) {
		clean := helpers.SanitizeAbstract(m.pub.Abstract[loc])
		if clean == "" {
			continue
		}

		tag := "trans-abstract"
		if loc == primary {
			tag = "abstract"
		}
		el, err := parseFragment(tag, clean)
		if err != nil {
			return err
		}
		if loc != primary {
			el.CreateAttr("xml:lang", locale.XMLLang(loc))
		}
		prev = insertAfter(m.articleMeta, prev, el)
	}
	return nil
}

// identifiers sets the publisher's journal ID, the publisher article ID and
// the DOI.
func (m *merger) identifiers() {
	journalID := m.journalMeta.FindElement("journal-id[@journal-id-type='publisher']")
	if journalID == nil {
		journalID = AddChildInOrder(m.journalMeta, etree.NewElement("journal-id"))
		journalID.CreateAttr("journal-id-type", "publisher")
	}
	setText(journalID, m.rec.Journal.Path)

	m.articleID("publisher-id", strconv.Itoa(m.rec.Article.ID))

	if doi := strings.TrimSpace(m.pub.DOI); doi != "" {
		m.articleID("doi", doi)
	}
}

func (m *merger) articleID(pubIDType, value string) {
	el := m.articleMeta.FindElement("article-id[@pub-id-type='" + pubIDType + "']")
	if el == nil {
		el = AddChildInOrder(m.articleMeta, etree.NewElement("article-id"))
		el.CreateAttr("pub-id-type", pubIDType)
	}
	setText(el, value)
}

// permissions adds copyright and license information when the document
// has none of its own. Permissions already present are left untouched.
func (m *merger) permissions() {
	if m.articleMeta.SelectElement("permissions") != nil {
		return
	}

	primary := m.primaryLocale()
	holder := strings.TrimSpace(m.pub.CopyrightHolder.Best(primary, m.rec.Journal.PrimaryLocale))
	year := strings.TrimSpace(m.pub.CopyrightYear)
	licenseURL := strings.TrimSpace(m.pub.LicenseURL)
	if holder == "" && year == "" && licenseURL == "" {
		return
	}

	perms := AddChildInOrder(m.articleMeta, etree.NewElement("permissions"))
	if year != "" || holder != "" {
		perms.CreateElement("copyright-statement").SetText(
			locale.Translate(primary, locale.KeyCopyrightStatement, year, holder))
	}
	if year != "" {
		perms.CreateElement("copyright-year").SetText(year)
	}
	if holder != "" {
		perms.CreateElement("copyright-holder").SetText(holder)
	}
	if licenseURL != "" {
		perms.CreateElement("license").CreateAttr("xlink:href", licenseURL)
	}
}

// categories rebuilds article-categories with the section heading in each
// of its locales.
func (m *merger) categories() {
	cats := m.findOrAdd(m.articleMeta, "article-categories")
	clearChildren(cats)

	if section := m.rec.Section; section != nil {
		for _, loc := range section.Title.Locales(m.supportedLocales()...) {
			title := helpers.StripHTML(section.Title[loc])
			if title == "" {
				continue
			}
			group := cats.CreateElement("subj-group")
			group.CreateAttr("subj-group-type", "heading")
			group.CreateAttr("xml:lang", locale.XMLLang(loc))
			group.CreateElement("subject").SetText(title)
		}
	}

	if len(cats.ChildElements()) == 0 {
		m.articleMeta.RemoveChild(cats)
	}
}

// sequence records the article's 1-based position in its issue on the
// volume element, or on the issue element when there is no volume.
func (m *merger) sequence() {
	for _, tag := range []string{"volume", "issue"} {
		if el := m.articleMeta.SelectElement(tag); el != nil {
			el.CreateAttr("seq", strconv.Itoa(m.pub.Seq+1))
			return
		}
	}
}

// issueIdentity sets the issue ID and the issue cover image.
func (m *merger) issueIdentity() {
	issue := m.rec.Issue
	if issue == nil {
		return
	}

	setText(m.findOrAdd(m.articleMeta, "issue-id"), strconv.Itoa(issue.ID))

	coverURL := issue.CoverImageURL.Best(m.primaryLocale(), m.rec.Journal.PrimaryLocale)
	if coverURL == "" {
		return
	}

	var customMeta *etree.Element
	for _, cm := range m.articleMeta.FindElements("custom-meta-group/custom-meta") {
		if name := cm.SelectElement("meta-name"); name != nil && strings.TrimSpace(name.Text()) == "issue-cover" {
			customMeta = cm
			break
		}
	}
	if customMeta != nil {
		clearChildren(customMeta)
	} else {
		customMeta = m.findOrAdd(m.articleMeta, "custom-meta-group").CreateElement("custom-meta")
	}
	customMeta.CreateElement("meta-name").SetText("issue-cover")
	graphic := customMeta.CreateElement("meta-value").CreateElement("inline-graphic")
	graphic.CreateAttr("xlink:href", coverURL)
}

func (m *merger) articleType() {
	section := m.rec.Section
	if section == nil {
		return
	}
	identifyType := section.IdentifyType.Best(m.primaryLocale(), m.rec.Journal.PrimaryLocale)
	if t := strings.ToLower(strings.TrimSpace(helpers.StripHTML(identifyType))); t != "" {
		m.article.CreateAttr("article-type", t)
	}
}

// findOrAdd returns the first child of parent with the given tag, creating
// it at its schema position when missing.
func (m *merger) findOrAdd(parent *etree.Element, tag string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	return AddChildInOrder(parent, etree.NewElement(tag))
}

// insertAfter places child directly after prev, keeping repeated siblings
// in the order they were generated. With no prev the child goes to its
// schema position.
func insertAfter(parent, prev, child *etree.Element) *etree.Element {
	if prev == nil {
		return AddChildInOrder(parent, child)
	}
	parent.InsertChildAt(prev.Index()+1, child)
	return child
}

func clearChildren(el *etree.Element) {
	for len(el.Child) > 0 {
		el.RemoveChildAt(0)
	}
}

func setText(el *etree.Element, text string) {
	clearChildren(el)
	el.SetText(text)
}

func removeAll(parent *etree.Element, tag string) {
	for _, el := range parent.SelectElements(tag) {
		parent.RemoveChild(el)
	}
}

// inlineElement builds an element whose content is title HTML converted to
// JATS inline markup.
func inlineElement(tag, html string) (*etree.Element, error) {
	return parseFragment(tag, helpers.SanitizeTitle(html))
}

// parseFragment parses well-formed markup as the content of a new element.
func parseFragment(tag, markup string) (*etree.Element, error) {
	frag := etree.NewDocument()
	if err := frag.ReadFromString("<" + tag + ">" + markup + "</" + tag + ">"); err != nil {
		return nil, fmt.Errorf("parsing %s markup: %w", tag, err)
	}
	return frag.Root().Copy(), nil
}
