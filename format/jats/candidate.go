package jats

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

var (
	// ErrNoArticle is returned for documents without an <article> element.
	ErrNoArticle = errors.New("jats: document has no <article> element")

	// ErrNoArticleMeta is returned for documents that are not JATS articles.
	ErrNoArticleMeta = errors.New("jats: document has no article/front/article-meta")
)

// DocumentFinder may supply a JATS document for a record. It is consulted
// after stored candidate files have been collected and returns a nil
// document when it has nothing to contribute.
type DocumentFinder interface {
	FindJATS(rec *record.Record, candidates []*record.SubmissionFile) (*etree.Document, error)
}

// DocumentFinderFunc adapts a function to DocumentFinder.
type DocumentFinderFunc func(rec *record.Record, candidates []*record.SubmissionFile) (*etree.Document, error)

// FindJATS calls fn.
func (fn DocumentFinderFunc) FindJATS(rec *record.Record, candidates []*record.SubmissionFile) (*etree.Document, error) {
	return fn(rec, candidates)
}

type candidate struct {
	file *record.SubmissionFile
	doc  *etree.Document
}

// FindJATS locates the JATS document to expose for a record. Published
// galley files are preferred over production-ready files; neither is
// searched when the journal forces the template. Registered document
// finders may then supply a document. With no document and no candidate the
// result is format.ErrCannotDisseminate.
func (f *Format) FindJATS(rec *record.Record) (*etree.Document, error) {
	article := rec.Article
	var candidates []candidate

	if !f.ForceTemplate(article.ContextID) {
		for _, galley := range rec.Galleys {
			if galley.SubmissionFileID == 0 {
				continue
			}
			file, err := f.services.Files.SubmissionFile(galley.SubmissionFileID)
			if err != nil {
				return nil, fmt.Errorf("loading galley file %d: %w", galley.SubmissionFileID, err)
			}
			if file == nil {
				continue
			}
			c, err := f.candidate(file)
			if err != nil {
				return nil, err
			}
			if c != nil {
				candidates = append(candidates, *c)
			}
		}

		if len(candidates) == 0 {
			layoutFiles, err := f.services.Files.SubmissionFilesByStage(article.ID, record.FileStageProductionReady)
			if err != nil {
				return nil, fmt.Errorf("listing production-ready files for submission %d: %w", article.ID, err)
			}
			for _, file := range layoutFiles {
				c, err := f.candidate(file)
				if err != nil {
					return nil, err
				}
				if c != nil {
					candidates = append(candidates, *c)
				}
			}
		}
	}

	files := make([]*record.SubmissionFile, len(candidates))
	for i, c := range candidates {
		files[i] = c.file
	}

	var doc *etree.Document
	for _, finder := range f.finders {
		d, err := finder.FindJATS(rec, files)
		if err != nil {
			return nil, fmt.Errorf("finding JATS document for submission %d: %w", article.ID, err)
		}
		if d != nil {
			doc = d
			break
		}
	}

	if doc == nil && len(candidates) == 0 {
		return nil, format.CannotDisseminate("JATS XML not available")
	}
	if len(candidates) > 1 {
		slog.Warn("more than one JATS XML candidate document located",
			"submission", article.ID, "candidates", len(candidates), "using", candidates[0].file.ID)
	}

	if doc == nil {
		doc = candidates[0].doc
	}
	return doc, nil
}

// candidate returns the parsed document when file looks like a main JATS
// document, or nil when it does not. Stored XML that fails to parse is an
// error.
func (f *Format) candidate(file *record.SubmissionFile) (*candidate, error) {
	mimeType, err := f.services.Storage.MimeType(file.FileID)
	if err != nil {
		return nil, fmt.Errorf("detecting type of file %d: %w", file.FileID, err)
	}
	if mimeType != "application/xml" && mimeType != "text/xml" {
		slog.Debug("skipping candidate", "submissionFile", file.ID, "reason", "not XML", "mimeType", mimeType)
		return nil, nil
	}

	genre, err := f.genre(file.GenreID)
	if err != nil {
		return nil, err
	}
	if genre.Category != record.GenreCategoryDocument || genre.Dependent || genre.Supplementary {
		slog.Debug("skipping candidate", "submissionFile", file.ID, "reason", "not a main document", "genre", genre.ID)
		return nil, nil
	}

	data, err := f.services.Storage.ReadFile(file.FileID)
	if err != nil {
		return nil, fmt.Errorf("reading submission file %d: %w", file.ID, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing submission file %d: %w", file.ID, err)
	}
	if doc.FindElement("//article/front/article-meta") == nil {
		slog.Debug("skipping candidate", "submissionFile", file.ID, "reason", "no article-meta")
		return nil, nil
	}

	return &candidate{file: file, doc: doc}, nil
}

// genre returns a genre by ID, memoized for the life of the Format.
func (f *Format) genre(id int) (*record.Genre, error) {
	f.genreMu.Lock()
	defer f.genreMu.Unlock()

	if g, ok := f.genres[id]; ok {
		return g, nil
	}
	g, err := f.services.Genres.Genre(id)
	if err != nil {
		return nil, fmt.Errorf("loading genre %d: %w", id, err)
	}
	if g == nil {
		return nil, fmt.Errorf("unknown genre: %d", id)
	}
	f.genres[id] = g
	slog.Debug("cached genre", "genre", id, "category", g.Category)
	return g, nil
}
