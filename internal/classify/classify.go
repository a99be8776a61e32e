// Package classify implements the file-type oracle collaborator described
// in spec.md §6: a pure function from a path to a classification string,
// which the Harvester matches against its configured tag prefixes.
package classify

import (
	"github.com/gabriel-vasile/mimetype"
)

// Classifier maps a file path to a classification string. The Harvester
// accepts a file for tag T when Classify(path) starts with T.
type Classifier interface {
	Classify(path string) (string, error)
}

// Sniffer is the default Classifier, backed by content sniffing
// (github.com/gabriel-vasile/mimetype) rather than file extensions, so a
// renamed or extensionless source file still classifies correctly.
type Sniffer struct{}

// NewSniffer returns the default content-sniffing Classifier.
func NewSniffer() *Sniffer { return &Sniffer{} }

// Classify returns a coarse tag such as "JPEG", "ELF", "PNG", "PDF", "ZIP",
// "GIF" or "TEXT" derived from the detected MIME type, or "OCTET-STREAM"
// when nothing more specific matches. The original only special-cased JPEG
// and ELF; this mapping is deliberately broader (SPEC_FULL.md §5) so any
// tag a definitions document names can be routed.
func (s *Sniffer) Classify(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	for mt := mtype; mt != nil; mt = mt.Parent() {
		if tag, ok := mimeTag[mt.String()]; ok {
			return tag, nil
		}
	}
	return "OCTET-STREAM", nil
}

var mimeTag = map[string]string{
	"image/jpeg":                "JPEG",
	"application/x-elf":         "ELF",
	"image/png":                 "PNG",
	"application/pdf":           "PDF",
	"application/zip":           "ZIP",
	"image/gif":                 "GIF",
	"text/plain; charset=utf-8": "TEXT",
}
