// Package matrix builds the CI build matrix from a list of target triples.
package matrix

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnnouncementPrefix is the workflow command CI parses the matrix from
const AnnouncementPrefix = "::set-output name=matrix::"

// ReleaseFlag is appended to the debug tool invocation to form the release invocation
const ReleaseFlag = " -release"

// Invocation describes a build tool command line
type Invocation struct {
	Tool string `json:"tool" yaml:"tool"`
}

// Record is one entry of the matrix include list.
// Field order is the wire key order.
type Record struct {
	Target  string     `json:"target" yaml:"target"`
	Windows bool       `json:"windows" yaml:"windows"`
	Android bool       `json:"android" yaml:"android"`
	Linux   bool       `json:"linux" yaml:"linux"`
	Mac     bool       `json:"mac" yaml:"mac"`
	IMArch  string     `json:"im_arch" yaml:"im_arch"`
	Output  string     `json:"output" yaml:"output"`
	Profile string     `json:"profile" yaml:"profile"`
	Debug   Invocation `json:"debug" yaml:"debug"`
	Release Invocation `json:"release" yaml:"release"`
}

// Document is the build matrix announced to CI
type Document struct {
	Target  []string `json:"target" yaml:"target"`
	Include []Record `json:"include" yaml:"include"`
}

// Record expands the platform into the record shape CI workflows consume
func (p Platform) Record(profile string) Record {
	tool := p.OS.BuildScript() + p.Arch.BuildFlag()

	return Record{
		Target:  p.Target,
		Windows: p.OS == OSWindows,
		Android: p.OS == OSAndroid,
		Linux:   p.OS == OSLinux,
		Mac:     p.OS == OSMac,
		IMArch:  p.Arch.IMArch(),
		Output:  p.OS.Artifact(),
		Profile: profile,
		Debug:   Invocation{Tool: tool},
		Release: Invocation{Tool: tool + ReleaseFlag},
	}
}

// NewDocument returns a document holding a copy of targets and an empty include list
func NewDocument(targets []string) Document {
	doc := Document{
		Target:  make([]string, len(targets)),
		Include: make([]Record, 0, len(targets)),
	}
	copy(doc.Target, targets)
	return doc
}

// Generate classifies every target in declaration order and assembles the matrix
func Generate(targets []string, profile string) Document {
	doc, _ := GenerateEach(targets, profile, nil)
	return doc
}

// GenerateEach is Generate with a hook called for each platform before its record is added.
// A hook error stops generation and is returned with an empty document.
func GenerateEach(targets []string, profile string, visit func(Platform) error) (Document, error) {
	doc := NewDocument(targets)
	for _, target := range targets {
		platform := Classify(target)
		if visit != nil {
			if err := visit(platform); err != nil {
				return Document{}, err
			}
		}
		doc.Include = append(doc.Include, platform.Record(profile))
	}
	return doc, nil
}

// JSON encodes the document compactly without a trailing newline
func (d Document) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode matrix: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Announcement returns the set-output workflow command carrying the matrix
func (d Document) Announcement() (string, error) {
	data, err := d.JSON()
	if err != nil {
		return "", err
	}
	return AnnouncementPrefix + string(data), nil
}
