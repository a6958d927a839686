package jats

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/oai-jats/record"
)

const storedJATS = `<?xml version="1.0" encoding="UTF-8"?>
<article xmlns:xlink="http://www.w3.org/1999/xlink" article-type="research-article">
  <front>
    <journal-meta>
      <journal-id journal-id-type="publisher">old-path</journal-id>
      <journal-title-group>
        <journal-title>Journal of Lehigh History</journal-title>
      </journal-title-group>
      <issn pub-type="epub">1234-5678</issn>
    </journal-meta>
    <article-meta>
      <article-id pub-id-type="publisher-id">old</article-id>
      <title-group>
        <article-title>%s</article-title>
      </title-group>
      <contrib-group content-type="author">
        <contrib contrib-type="person">
          <name><surname>Doe</surname><given-names>Jane</given-names></name>
          <email>jane@example.org</email>
        </contrib>
      </contrib-group>
      <permissions>
        <copyright-statement>Copyright (c) 2020 Upstream Press</copyright-statement>
        <license xlink:href="https://creativecommons.org/licenses/by/4.0/"/>
      </permissions>
    </article-meta>
  </front>
  <body>
    <p>Body text.</p>
  </body>
</article>`

func jatsFile(title string) string {
	return fmt.Sprintf(storedJATS, title)
}

type storedFile struct {
	mimeType string
	content  string
}

// fakeHost serves submission files, stored files, genres and the user
// directory from maps.
type fakeHost struct {
	files  map[int]*record.SubmissionFile
	stored map[int]storedFile
	genres map[int]*record.Genre
	groups []*record.UserGroup
	users  map[int][]*record.User
	reads  int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		files: map[int]*record.SubmissionFile{
			1: {ID: 1, FileID: 101, SubmissionID: 12, GenreID: 1, FileStage: record.FileStageProof},
			2: {ID: 2, FileID: 102, SubmissionID: 12, GenreID: 1, FileStage: record.FileStageProductionReady},
		},
		stored: map[int]storedFile{
			101: {"application/xml", jatsFile("Galley title")},
			102: {"text/xml", jatsFile("Layout title")},
		},
		genres: map[int]*record.Genre{
			1: {ID: 1, Key: "SUBMISSION", Category: record.GenreCategoryDocument},
			2: {ID: 2, Key: "IMAGE", Category: record.GenreCategoryArtwork},
			3: {ID: 3, Key: "STYLE", Category: record.GenreCategoryDocument, Dependent: true},
			4: {ID: 4, Key: "OTHER", Category: record.GenreCategoryDocument, Supplementary: true},
		},
		groups: []*record.UserGroup{
			{ID: 10, ContextID: 1, NameLocaleKey: "default.groups.name.manager"},
			{ID: 11, ContextID: 1, NameLocaleKey: "default.groups.name.author"},
			{ID: 12, ContextID: 1, NameLocaleKey: "default.groups.name.sectionEditor"},
		},
		users: map[int][]*record.User{
			10: {{ID: 1, GivenName: record.Localized{"en_US": "Ada"}, FamilyName: record.Localized{"en_US": "Lovelace"}, MiddleName: "King"}},
			11: {{ID: 2, GivenName: record.Localized{"en_US": "Jane"}, FamilyName: record.Localized{"en_US": "Doe"}}},
			12: {{ID: 3, GivenName: record.Localized{"en_US": "Cher"}}},
		},
	}
}

func (h *fakeHost) SubmissionFile(id int) (*record.SubmissionFile, error) {
	return h.files[id], nil
}

func (h *fakeHost) SubmissionFilesByStage(submissionID int, stage record.FileStage) ([]*record.SubmissionFile, error) {
	var ids []int
	for id, f := range h.files {
		if f.SubmissionID == submissionID && f.FileStage == stage {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	var files []*record.SubmissionFile
	for _, id := range ids {
		files = append(files, h.files[id])
	}
	return files, nil
}

func (h *fakeHost) ReadFile(fileID int) ([]byte, error) {
	f, ok := h.stored[fileID]
	if !ok {
		return nil, fmt.Errorf("unknown file: %d", fileID)
	}
	h.reads++
	return []byte(f.content), nil
}

func (h *fakeHost) MimeType(fileID int) (string, error) {
	f, ok := h.stored[fileID]
	if !ok {
		return "", fmt.Errorf("unknown file: %d", fileID)
	}
	return f.mimeType, nil
}

func (h *fakeHost) Genre(id int) (*record.Genre, error) {
	return h.genres[id], nil
}

func (h *fakeHost) UserGroups(contextID int) ([]*record.UserGroup, error) {
	var groups []*record.UserGroup
	for _, g := range h.groups {
		if g.ContextID == contextID {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func (h *fakeHost) UsersInGroup(groupID int) ([]*record.User, error) {
	return h.users[groupID], nil
}

func (h *fakeHost) services() Services {
	return Services{Files: h, Storage: h, Genres: h, Directory: h}
}

func testRouter(t *testing.T) *Router {
	t.Helper()
	r, err := NewRouter("https://journals.example.org")
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	return r
}

func testRecord() *record.Record {
	published := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	return &record.Record{
		Journal: &record.Journal{
			ID:               1,
			Path:             "jlh",
			Name:             record.Localized{"en_US": "Journal of Lehigh History"},
			PrimaryLocale:    "en_US",
			SupportedLocales: []string{"en_US", "fr_CA", "es_ES"},
			PublisherName:    "Lehigh University Libraries",
			OnlineISSN:       "1234-5678",
			PublishingMode:   record.PublishingModeOpen,
		},
		Article: &record.Article{
			ID:        12,
			ContextID: 1,
			Locale:    "en_US",
			CurrentPublication: &record.Publication{
				ID:            30,
				SectionID:     4,
				IssueID:       5,
				DatePublished: &published,
				Title:         record.Localized{"en_US": "A <i>study</i> of canals"},
				Abstract: record.Localized{
					"en_US": "Plain abstract text",
					"fr_CA": "<p>Résumé <b>gras</b></p>",
				},
				Keywords: map[string][]string{
					"en_US": {"history", "Bethlehem"},
					"de_DE": {"Geschichte"},
				},
				CopyrightYear:   "2024",
				CopyrightHolder: record.Localized{"en_US": "Jane Doe"},
				LicenseURL:      "https://creativecommons.org/licenses/by/4.0/",
				Seq:             2,
				DOI:             "10.1234/jlh.12",
			},
		},
		Section: &record.Section{
			ID:           4,
			Title:        record.Localized{"en_US": "Articles", "fr_CA": "Articles"},
			IdentifyType: record.Localized{"en_US": "Research-Article"},
		},
		Issue: &record.Issue{
			ID:           5,
			Volume:       "7",
			Number:       "2",
			Year:         2024,
			ShowVolume:   true,
			ShowNumber:   true,
			ShowYear:     true,
			ShowTitle:    true,
			Title:        record.Localized{"en_US": "Spring"},
			AccessStatus: record.IssueAccessOpen,
		},
		Galleys: []*record.Galley{
			{ID: 40, PublicationID: 30, SubmissionFileID: 1, FileType: "application/xml", Label: "JATS XML"},
		},
	}
}

func parseDoc(t *testing.T, s string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func articleTitle(doc *etree.Document) string {
	el := doc.FindElement("//article/front/article-meta/title-group/article-title")
	if el == nil {
		return ""
	}
	return el.Text()
}
