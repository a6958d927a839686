// Package dublincore provides the oai_dc metadata format that every OAI-PMH
// repository must support.
package dublincore

import (
	"github.com/lehigh-university-libraries/oai-jats/format"
)

// Version documents the Dublin Core specification this implementation targets.
const Version = "2020-01-20"

const (
	// MetadataPrefix is the OAI metadata prefix of the format.
	MetadataPrefix = "oai_dc"

	// SchemaURL is advertised by ListMetadataFormats.
	SchemaURL = "http://www.openarchives.org/OAI/2.0/oai_dc.xsd"

	// NamespaceURI is advertised by ListMetadataFormats.
	NamespaceURI = "http://www.openarchives.org/OAI/2.0/oai_dc/"
)

// Format implements the Dublin Core format.
type Format struct {
	// Links builds the article landing page used as dc:identifier. It may
	// be nil.
	Links func(journalPath, bestID string) string
}

// Ensure Format implements the interfaces
var (
	_ format.Format       = (*Format)(nil)
	_ format.Disseminator = (*Format)(nil)
)

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
	return "Dublin Core Metadata Element Set (v" + Version + ")"
}
