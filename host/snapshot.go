// Package host loads a YAML snapshot of a journal site and serves it through
// the lookup interfaces the JATS format consumes.
package host

import (
	"fmt"
	"slices"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/oai-jats/record"
)

// Snapshot is an in-memory copy of the host data needed to build records.
type Snapshot struct {
	Journals        []*record.Journal        `yaml:"journals"`
	Sections        []*record.Section        `yaml:"sections"`
	Issues          []*record.Issue          `yaml:"issues"`
	Articles        []*record.Article        `yaml:"articles"`
	Galleys         []*record.Galley         `yaml:"galleys"`
	SubmissionFiles []*record.SubmissionFile `yaml:"submission_files"`
	Files           []*StoredFile            `yaml:"files"`
	Genres          []*record.Genre          `yaml:"genres"`
	AllUserGroups   []*record.UserGroup      `yaml:"user_groups"`
	Users           []*record.User           `yaml:"users"`

	journals        map[int]*record.Journal
	sections        map[int]*record.Section
	issues          map[int]*record.Issue
	articles        map[int]*record.Article
	submissionFiles map[int]*record.SubmissionFile
	genres          map[int]*record.Genre
	users           map[int]*record.User
}

// StoredFile maps a file ID to its path in the file store.
type StoredFile struct {
	ID       int    `yaml:"id"`
	Path     string `yaml:"path"`
	MimeType string `yaml:"mimetype,omitempty"`
}

// Load reads a snapshot from a YAML file.
func Load(fs afero.Fs, path string) (*Snapshot, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading host snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes a snapshot from YAML content.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing host snapshot YAML: %w", err)
	}
	s.index()
	return &s, nil
}

func (s *Snapshot) index() {
	s.journals = indexBy(s.Journals, func(j *record.Journal) int { return j.ID })
	s.sections = indexBy(s.Sections, func(x *record.Section) int { return x.ID })
	s.issues = indexBy(s.Issues, func(i *record.Issue) int { return i.ID })
	s.articles = indexBy(s.Articles, func(a *record.Article) int { return a.ID })
	s.submissionFiles = indexBy(s.SubmissionFiles, func(f *record.SubmissionFile) int { return f.ID })
	s.genres = indexBy(s.Genres, func(g *record.Genre) int { return g.ID })
	s.users = indexBy(s.Users, func(u *record.User) int { return u.ID })
}

func indexBy[T any](items []T, key func(T) int) map[int]T {
	m := make(map[int]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}

// Record assembles the OAI record for an article.
func (s *Snapshot) Record(articleID int) (*record.Record, error) {
	article, ok := s.articles[articleID]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", articleID, record.ErrNotFound)
	}
	journal, ok := s.journals[article.ContextID]
	if !ok {
		return nil, fmt.Errorf("article %d: unknown journal %d", articleID, article.ContextID)
	}
	pub := article.CurrentPublication
	if pub == nil {
		return nil, fmt.Errorf("article %d has no current publication", articleID)
	}

	rec := &record.Record{
		Journal: journal,
		Article: article,
		Section: s.sections[pub.SectionID],
		Issue:   s.issues[pub.IssueID],
	}
	if rec.Section == nil {
		rec.Section = &record.Section{ID: pub.SectionID}
	}
	for _, g := range s.Galleys {
		if g.PublicationID == pub.ID {
			rec.Galleys = append(rec.Galleys, g)
		}
	}
	return rec, nil
}

// ArticleIDs returns the IDs of all articles in ascending order.
func (s *Snapshot) ArticleIDs() []int {
	ids := make([]int, 0, len(s.articles))
	for id := range s.articles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Journal returns the journal with the given ID.
func (s *Snapshot) Journal(id int) (*record.Journal, bool) {
	j, ok := s.journals[id]
	return j, ok
}

// SubmissionFile implements record.SubmissionFiles.
func (s *Snapshot) SubmissionFile(id int) (*record.SubmissionFile, error) {
	return s.submissionFiles[id], nil
}

// SubmissionFilesByStage implements record.SubmissionFiles.
func (s *Snapshot) SubmissionFilesByStage(submissionID int, stage record.FileStage) ([]*record.SubmissionFile, error) {
	var result []*record.SubmissionFile
	for _, f := range s.SubmissionFiles {
		if f.SubmissionID == submissionID && f.FileStage == stage {
			result = append(result, f)
		}
	}
	return result, nil
}

// Genre implements record.Genres.
func (s *Snapshot) Genre(id int) (*record.Genre, error) {
	g, ok := s.genres[id]
	if !ok {
		return nil, fmt.Errorf("unknown genre: %d", id)
	}
	return g, nil
}

// UserGroups implements record.Directory.
func (s *Snapshot) UserGroups(contextID int) ([]*record.UserGroup, error) {
	var result []*record.UserGroup
	for _, g := range s.AllUserGroups {
		if g.ContextID == contextID {
			result = append(result, g)
		}
	}
	return result, nil
}

// UsersInGroup implements record.Directory.
func (s *Snapshot) UsersInGroup(groupID int) ([]*record.User, error) {
	idx := slices.IndexFunc(s.AllUserGroups, func(g *record.UserGroup) bool { return g.ID == groupID })
	if idx < 0 {
		return nil, fmt.Errorf("unknown user group: %d", groupID)
	}
	var result []*record.User
	for _, id := range s.AllUserGroups[idx].UserIDs {
		if u, ok := s.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

var (
	_ record.SubmissionFiles = (*Snapshot)(nil)
	_ record.Genres          = (*Snapshot)(nil)
	_ record.Directory       = (*Snapshot)(nil)
)
