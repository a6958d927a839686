package jats

import (
	"fmt"
	"slices"

	"github.com/beevik/etree"
)

// permittedElementOrders lists, per parent element, the child elements the
// JATS publishing schema allows in the order it requires them.
var permittedElementOrders = map[string][]string{
	"article": {"front", "body", "back", "floats-group", "sub-article", "response"},
	"front":   {"journal-meta", "article-meta", "notes"},
	"article-meta": {
		"article-id", "article-categories", "title-group", "contrib-group", "aff", "aff-alternatives",
		"x", "author-notes", "pub-date", "volume", "volume-id", "volume-series", "issue", "issue-id",
		"issue-title", "issue-sponsor", "issue-part", "isbn", "supplement", "fpage", "lpage", "page-range",
		"elocation-id", "email", "ext-link", "uri", "product", "supplementary-material", "history",
		"permissions", "self-uri", "related-article", "related-object", "abstract", "trans-abstract",
		"kwd-group", "funding-group", "conference", "counts", "custom-meta-group",
	},
	"journal-meta": {
		"journal-id", "journal-title-group", "contrib-group", "aff", "aff-alternatives", "issn",
		"issn-l", "isbn", "publisher", "notes", "self-uri", "custom-meta-group",
	},
	"title-group": {"article-title", "subtitle", "trans-title-group", "alt-title", "fn-group"},
	"counts":      {"count", "fig-count", "table-count", "equation-count", "ref-count", "page-count", "word-count"},
}

// AddChildInOrder inserts child under parent at the position the schema
// requires: before the first existing child whose element appears at or
// after child's own position in the parent's order list, or at the end.
// Parents and children missing from the order table are a programming
// error and cause a panic.
func AddChildInOrder(parent, child *etree.Element) *etree.Element {
	order, ok := permittedElementOrders[parent.Tag]
	if !ok {
		panic(fmt.Sprintf("jats: no child order known for <%s>", parent.Tag))
	}
	position := slices.Index(order, child.Tag)
	if position < 0 {
		panic(fmt.Sprintf("jats: <%s> is not a permitted child of <%s>", child.Tag, parent.Tag))
	}

	following := order[position:]
	for _, sibling := range parent.ChildElements() {
		if slices.Contains(following, sibling.Tag) {
			parent.InsertChildAt(sibling.Index(), child)
			return child
		}
	}
	parent.AddChild(child)
	return child
}

// OrderViolation describes a child element found out of schema order.
type OrderViolation struct {
	Parent string
	Child  string
	After  string
}

func (v OrderViolation) String() string {
	return fmt.Sprintf("<%s> must precede <%s> inside <%s>", v.Child, v.After, v.Parent)
}

// CheckOrder walks el and its descendants and reports every child that
// appears after a sibling the order table places later. Elements the table
// does not know are ignored.
func CheckOrder(el *etree.Element) []OrderViolation {
	var violations []OrderViolation
	if order, ok := permittedElementOrders[el.Tag]; ok {
		highest, highestTag := -1, ""
		for _, child := range el.ChildElements() {
			pos := slices.Index(order, child.Tag)
			if pos < 0 {
				continue
			}
			if pos < highest {
				violations = append(violations, OrderViolation{
					Parent: el.Tag,
					Child:  child.Tag,
					After:  highestTag,
				})
				continue
			}
			highest, highestTag = pos, child.Tag
		}
	}
	for _, child := range el.ChildElements() {
		violations = append(violations, CheckOrder(child)...)
	}
	return violations
}

// CheckDocument reports whether doc could serve as a stored JATS document
// and returns the ordering problems in its <article> element.
func CheckDocument(doc *etree.Document) ([]OrderViolation, error) {
	article := doc.FindElement("//article")
	if article == nil {
		return nil, ErrNoArticle
	}
	if doc.FindElement("//article/front/article-meta") == nil {
		return nil, ErrNoArticleMeta
	}
	return CheckOrder(article), nil
}
