package jats

import (
	"testing"

	"github.com/lehigh-university-libraries/oai-jats/record"
)

func templateRecord() *record.Record {
	rec := testRecord()
	rec.Journal.Acronym = record.Localized{"en_US": "JLH"}
	rec.Journal.PrintISSN = "8765-4321"
	pub := rec.Article.CurrentPublication
	pub.Pages = "12-20"
	pub.Citations = []string{"Smith, J. (1999). Canals. Lehigh Press.", "  ", "Doe, J. (2001). Rails."}
	pub.Authors = []*record.Author{
		{
			ID:             1,
			GivenName:      record.Localized{"en_US": "Jane"},
			FamilyName:     record.Localized{"en_US": "Doe"},
			Email:          "jane@example.org",
			Affiliation:    record.Localized{"en_US": "Lehigh University"},
			Country:        "US",
			ORCID:          "https://orcid.org/0000-0002-1825-0097",
			PrimaryContact: true,
		},
		{
			ID:          2,
			GivenName:   record.Localized{"en_US": "John"},
			FamilyName:  record.Localized{"en_US": "Roe"},
			Affiliation: record.Localized{"en_US": "Lehigh University"},
			Country:     "US",
		},
		{
			ID:        3,
			GivenName: record.Localized{"en_US": "Prince"},
		},
	}
	return rec
}

func TestBuildTemplate(t *testing.T) {
	doc := BuildTemplate(templateRecord())

	texts := []struct {
		path string
		want string
	}{
		{"//journal-meta/journal-title-group/journal-title", "Journal of Lehigh History"},
		{"//journal-meta/journal-title-group/abbrev-journal-title", "JLH"},
		{"//journal-meta/issn[@publication-format='print']", "8765-4321"},
		{"//journal-meta/issn[@publication-format='electronic']", "1234-5678"},
		{"//journal-meta/publisher/publisher-name", "Lehigh University Libraries"},
		{"//article-meta/fpage", "12"},
		{"//article-meta/lpage", "20"},
		{"//article-meta/aff[@id='aff-1']/institution", "Lehigh University"},
		{"//back/ref-list/ref[@id='R2']/mixed-citation", "Doe, J. (2001). Rails."},
	}
	for _, tt := range texts {
		el := doc.FindElement(tt.path)
		if el == nil {
			t.Errorf("%s: not found", tt.path)
			continue
		}
		if el.Text() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.path, el.Text(), tt.want)
		}
	}

	contribs := doc.FindElements("//article-meta/contrib-group/contrib")
	if len(contribs) != 3 {
		t.Fatalf("contrib count: got %d, want 3", len(contribs))
	}
	if contribs[0].SelectAttrValue("corresp", "") != "yes" {
		t.Errorf("primary contact should be marked corresp")
	}
	if el := contribs[0].SelectElement("contrib-id"); el == nil || el.SelectAttrValue("contrib-id-type", "") != "orcid" {
		t.Errorf("ORCID contrib-id missing")
	}
	for i, c := range contribs[:2] {
		if x := c.SelectElement("xref"); x == nil || x.SelectAttrValue("rid", "") != "aff-1" {
			t.Errorf("contrib %d should reference the shared affiliation", i)
		}
	}
	if contribs[2].SelectElement("xref") != nil || contribs[2].FindElement("name/surname") != nil {
		t.Errorf("third author has neither affiliation nor surname")
	}
	if n := len(doc.FindElements("//article-meta/aff")); n != 1 {
		t.Errorf("aff count: got %d, want 1", n)
	}
	if n := len(doc.FindElements("//ref-list/ref")); n != 2 {
		t.Errorf("ref count: got %d, want 2", n)
	}

	if violations := CheckOrder(doc.Root()); len(violations) > 0 {
		t.Errorf("template is out of order: %v", violations)
	}
}

func TestTemplateMerges(t *testing.T) {
	rec := templateRecord()
	doc := BuildTemplate(rec)
	if err := Merge(doc, rec, MergeOptions{Router: testRouter(t), Directory: newFakeHost()}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if el := doc.FindElement("//article-meta/title-group/article-title/italic"); el == nil || el.Text() != "study" {
		t.Errorf("merged title missing")
	}
	if doc.FindElement("//article-meta/contrib-group//email") != nil {
		t.Errorf("author email kept without prepublication access")
	}
	if violations := CheckOrder(doc.Root()); len(violations) > 0 {
		t.Errorf("merged template is out of order: %v", violations)
	}
}

func TestTemplateFinder(t *testing.T) {
	rec := templateRecord()

	doc, err := Template{}.FindJATS(rec, []*record.SubmissionFile{{ID: 1}})
	if err != nil || doc != nil {
		t.Errorf("with candidates: got %v, %v; want nil, nil", doc, err)
	}

	doc, err = Template{}.FindJATS(rec, nil)
	if err != nil {
		t.Fatalf("FindJATS failed: %v", err)
	}
	if doc == nil || doc.FindElement("//article/front/article-meta") == nil {
		t.Errorf("expected a synthesized article")
	}
}

func TestAddPages(t *testing.T) {
	tests := []struct {
		pages string
		fpage string
		lpage string
	}{
		{"12-20", "12", "20"},
		{"7", "7", ""},
		{" iv - x ", "iv", "x"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.pages, func(t *testing.T) {
			rec := testRecord()
			rec.Article.CurrentPublication.Pages = tt.pages
			doc := BuildTemplate(rec)

			text := func(path string) string {
				if el := doc.FindElement(path); el != nil {
					return el.Text()
				}
				return ""
			}
			if got := text("//article-meta/fpage"); got != tt.fpage {
				t.Errorf("fpage: got %q, want %q", got, tt.fpage)
			}
			if got := text("//article-meta/lpage"); got != tt.lpage {
				t.Errorf("lpage: got %q, want %q", got, tt.lpage)
			}
		})
	}
}
