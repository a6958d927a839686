// Package oai answers OAI-PMH record requests from the registered metadata
// formats.
package oai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/record"
)

// Source supplies the records a repository exposes.
type Source interface {
	Record(articleID int) (*record.Record, error)
	ArticleIDs() []int
}

// Dispatcher routes OAI-PMH verbs to metadata formats.
type Dispatcher struct {
	// RepositoryID is the namespace part of OAI identifiers.
	RepositoryID string

	// BaseURL is echoed in the request element.
	BaseURL string

	Source   Source
	Registry *format.Registry

	// Enabled reports whether a format is enabled for a journal. A nil
	// func enables every format everywhere.
	Enabled func(prefix string, contextID int) bool

	// Concurrency bounds the records built in parallel by ListRecords.
	Concurrency int

	Now func() time.Time
}

func (d *Dispatcher) registry() *format.Registry {
	if d.Registry != nil {
		return d.Registry
	}
	return format.DefaultRegistry
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d *Dispatcher) response(req Request) *Response {
	req.URL = d.BaseURL
	return &Response{
		ResponseDate: d.now().Format(time.RFC3339),
		Request:      req,
	}
}

// Identifier returns the OAI identifier of an article.
func (d *Dispatcher) Identifier(articleID int) string {
	return fmt.Sprintf("oai:%s:article/%d", d.RepositoryID, articleID)
}

// ParseIdentifier returns the article ID named by an OAI identifier.
func (d *Dispatcher) ParseIdentifier(identifier string) (int, error) {
	prefix := "oai:" + d.RepositoryID + ":article/"
	rest, ok := strings.CutPrefix(identifier, prefix)
	if !ok {
		return 0, fmt.Errorf("identifier %q is not of the form %s<id>", identifier, prefix)
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identifier %q has no valid article ID", identifier)
	}
	return id, nil
}

// ListMetadataFormats lists the registered formats.
func (d *Dispatcher) ListMetadataFormats() *Response {
	resp := d.response(Request{Verb: "ListMetadataFormats"})
	payload := &ListMetadataFormats{}
	for _, f := range d.registry().List() {
		payload.Formats = append(payload.Formats, &MetadataFormat{
			Prefix:    f.Prefix(),
			Schema:    f.Schema(),
			Namespace: f.Namespace(),
		})
	}
	resp.Payload = payload
	return resp
}

// GetRecord answers a GetRecord request. Protocol errors are reported in
// the response; the returned error is reserved for failures that are not
// the requester's doing, such as malformed stored XML.
func (d *Dispatcher) GetRecord(ctx context.Context, identifier, prefix string, actor *record.Actor) (*Response, error) {
	resp := d.response(Request{Verb: "GetRecord", Identifier: identifier, MetadataPrefix: prefix})

	disseminator, err := d.registry().GetDisseminator(prefix)
	if err != nil {
		resp.Errors = append(resp.Errors, &Error{Code: CodeCannotDisseminateFormat, Message: err.Error()})
		return resp, nil
	}
	articleID, err := d.ParseIdentifier(identifier)
	if err != nil {
		resp.Errors = append(resp.Errors, &Error{Code: CodeIDDoesNotExist, Message: err.Error()})
		return resp, nil
	}

	rec, err := d.buildRecord(ctx, disseminator, articleID, actor)
	if err != nil {
		var oaiErr *Error
		if errors.As(err, &oaiErr) {
			resp.Errors = append(resp.Errors, oaiErr)
			return resp, nil
		}
		return nil, err
	}
	resp.Payload = &GetRecord{Record: rec}
	return resp, nil
}

// ListRecords disseminates every record in prefix. Records are built
// concurrently; a record that fails is logged and left out without
// affecting the others.
func (d *Dispatcher) ListRecords(ctx context.Context, prefix string, actor *record.Actor) (*Response, error) {
	resp := d.response(Request{Verb: "ListRecords", MetadataPrefix: prefix})

	disseminator, err := d.registry().GetDisseminator(prefix)
	if err != nil {
		resp.Errors = append(resp.Errors, &Error{Code: CodeCannotDisseminateFormat, Message: err.Error()})
		return resp, nil
	}

	ids := d.Source.ArticleIDs()
	results := make([]*Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	limit := d.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			rec, err := d.buildRecord(gctx, disseminator, id, actor)
			if err != nil {
				results[i] = &Record{Header: Header{Identifier: d.Identifier(id)}, Err: err}
				return nil
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload := &ListRecords{}
	for _, rec := range results {
		if rec == nil {
			continue
		}
		if rec.Err != nil {
			var oaiErr *Error
			if errors.As(rec.Err, &oaiErr) {
				slog.Debug("skipping record", "identifier", rec.Header.Identifier, "code", oaiErr.Code)
			} else {
				slog.Warn("skipping record", "identifier", rec.Header.Identifier, "err", rec.Err)
			}
			continue
		}
		payload.Records = append(payload.Records, rec)
	}
	if len(payload.Records) == 0 {
		resp.Errors = append(resp.Errors, &Error{Code: CodeNoRecordsMatch, Message: "No records match the request"})
		return resp, nil
	}
	resp.Payload = payload
	return resp, nil
}

// buildRecord disseminates one article. Protocol conditions come back as
// *Error.
func (d *Dispatcher) buildRecord(ctx context.Context, f format.Disseminator, articleID int, actor *record.Actor) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := d.Source.Record(articleID)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, &Error{Code: CodeIDDoesNotExist, Message: "No matching identifier in this repository"}
		}
		return nil, fmt.Errorf("loading article %d: %w", articleID, err)
	}
	if d.Enabled != nil && !d.Enabled(f.Prefix(), rec.Journal.ID) {
		return nil, &Error{Code: CodeCannotDisseminateFormat, Message: "Metadata format " + f.Prefix() + " is not enabled for this journal"}
	}

	body, err := f.ToXML(rec, actor)
	if err != nil {
		if errors.Is(err, format.ErrCannotDisseminate) {
			slog.Debug("cannot disseminate", "article", articleID, "prefix", f.Prefix(), "err", err)
			return nil, &Error{Code: CodeCannotDisseminateFormat, Message: "Cannot disseminate format (JATS XML not available)"}
		}
		return nil, fmt.Errorf("disseminating article %d as %s: %w", articleID, f.Prefix(), err)
	}

	return &Record{
		Header:   d.header(rec),
		Metadata: &Metadata{Body: body},
	}, nil
}

func (d *Dispatcher) header(rec *record.Record) Header {
	h := Header{Identifier: d.Identifier(rec.Article.ID)}
	if published := rec.Article.CurrentPublication.DatePublished; published != nil {
		h.Datestamp = published.UTC().Format(time.DateOnly)
	}
	setSpec := rec.Journal.Path
	if rec.Section != nil && rec.Section.ID != 0 {
		setSpec += ":" + strconv.Itoa(rec.Section.ID)
	}
	if setSpec != "" {
		h.SetSpecs = []string{setSpec}
	}
	return h
}
