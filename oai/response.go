package oai

import (
	"encoding/xml"
	"fmt"
)

// Namespace is the OAI-PMH 2.0 response namespace.
const Namespace = "http://www.openarchives.org/OAI/2.0/"

// Error codes defined by OAI-PMH.
const (
	CodeBadArgument             = "badArgument"
	CodeCannotDisseminateFormat = "cannotDisseminateFormat"
	CodeIDDoesNotExist          = "idDoesNotExist"
	CodeNoRecordsMatch          = "noRecordsMatch"
)

// Response is an OAI-PMH response document.
type Response struct {
	XMLName      xml.Name `xml:"http://www.openarchives.org/OAI/2.0/ OAI-PMH"`
	ResponseDate string   `xml:"responseDate"`
	Request      Request  `xml:"request"`
	Errors       []*Error `xml:"error,omitempty"`
	Payload      any
}

// Request echoes the request being answered.
type Request struct {
	URL            string `xml:",chardata"`
	Verb           string `xml:"verb,attr,omitempty"`
	Identifier     string `xml:"identifier,attr,omitempty"`
	MetadataPrefix string `xml:"metadataPrefix,attr,omitempty"`
}

// Error is an OAI-PMH protocol error.
type Error struct {
	XMLName xml.Name `xml:"error"`
	Code    string   `xml:"code,attr"`
	Message string   `xml:",chardata"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GetRecord is the payload of a GetRecord response.
type GetRecord struct {
	XMLName xml.Name `xml:"GetRecord"`
	Record  *Record  `xml:"record"`
}

// ListRecords is the payload of a ListRecords response.
type ListRecords struct {
	XMLName xml.Name  `xml:"ListRecords"`
	Records []*Record `xml:"record"`
}

// ListMetadataFormats is the payload of a ListMetadataFormats response.
type ListMetadataFormats struct {
	XMLName xml.Name          `xml:"ListMetadataFormats"`
	Formats []*MetadataFormat `xml:"metadataFormat"`
}

// MetadataFormat describes one supported metadata prefix.
type MetadataFormat struct {
	Prefix    string `xml:"metadataPrefix"`
	Schema    string `xml:"schema"`
	Namespace string `xml:"metadataNamespace"`
}

// Record is a harvested record.
type Record struct {
	Header   Header    `xml:"header"`
	Metadata *Metadata `xml:"metadata,omitempty"`

	// Err is set when this record could not be built during ListRecords.
	// It is reported on stderr rather than in the response.
	Err error `xml:"-"`
}

// Header identifies a record.
type Header struct {
	Identifier string   `xml:"identifier"`
	Datestamp  string   `xml:"datestamp"`
	SetSpecs   []string `xml:"setSpec,omitempty"`
}

// Metadata holds the serialized metadata element verbatim.
type Metadata struct {
	Body string `xml:",innerxml"`
}

// Marshal renders a response with an XML declaration.
func Marshal(resp *Response) ([]byte, error) {
	out, err := xml.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling OAI response: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
