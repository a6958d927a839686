// Package format defines the interface for OAI metadata format plugins.
package format

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/oai-jats/record"
)

// ErrCannotDisseminate reports that a format cannot be produced for a
// record. The OAI layer answers it with a cannotDisseminateFormat error.
var ErrCannotDisseminate = errors.New("cannot disseminate format")

// CannotDisseminate returns ErrCannotDisseminate annotated with a reason.
func CannotDisseminate(reason string) error {
	return fmt.Errorf("%w (%s)", ErrCannotDisseminate, reason)
}

// Format describes a metadata format as advertised by ListMetadataFormats.
type Format interface {
	// Prefix returns the OAI metadata prefix (e.g., "jats", "oai_dc")
	Prefix() string

	// Schema returns the URL of the format's XML schema
	Schema() string

	// Namespace returns the format's XML namespace
	Namespace() string

	// Description returns a human-readable format description
	Description() string
}

// Disseminator is a format that can render a record's metadata element.
type Disseminator interface {
	Format

	// ToXML returns the metadata XML for rec as seen by actor. A nil actor
	// is an anonymous request.
	ToXML(rec *record.Record, actor *record.Actor) (string, error)
}
