// Package wire maps RoadmapData to and from the stored document shape.
//
// The store keeps every collection as a keyed map {id: entity}. Older
// documents still hold some collections as plain arrays. Each collection is
// decoded on its own as one of: absent/null, legacy array, keyed map.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedDocument indicates the stored document cannot be decoded. The
// store will never accept it on retry, so it is not retryable.
var ErrMalformedDocument = errors.New("malformed roadmap document")

// Document is the stored roadmap. Each field holds the raw JSON of one
// collection so the shape can be detected per collection.
type Document struct {
	Projects      json.RawMessage `json:"projects,omitempty"`
	TeamMembers   json.RawMessage `json:"teamMembers,omitempty"`
	Dependencies  json.RawMessage `json:"dependencies,omitempty"`
	LeaveBlocks   json.RawMessage `json:"leaveBlocks,omitempty"`
	PeriodMarkers json.RawMessage `json:"periodMarkers,omitempty"`
}

// Decode parses a stored document body.
func Decode(body []byte) (Document, error) {
	var doc Document
	if len(bytes.TrimSpace(body)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

// Encode renders the document for storage.
func (d Document) Encode() ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return b, nil
}

// IsEmpty reports whether no collection is present.
func (d Document) IsEmpty() bool {
	for _, raw := range d.collections() {
		if shapeOf(raw) != shapeAbsent {
			return false
		}
	}
	return true
}

// IsLegacyFormat reports whether any collection, including any project's
// nested milestones, is stored as an array. Such documents get rewritten in
// the keyed shape on load.
func IsLegacyFormat(d Document) bool {
	for _, raw := range d.collections() {
		if shapeOf(raw) == shapeArray {
			return true
		}
	}
	projects, err := entries(d.Projects)
	if err != nil {
		return false
	}
	for _, e := range projects {
		var p struct {
			Milestones json.RawMessage `json:"milestones"`
		}
		if json.Unmarshal(e.raw, &p) == nil && shapeOf(p.Milestones) == shapeArray {
			return true
		}
	}
	return false
}

// LegacyCollections names the collections stored as arrays, for logging.
func LegacyCollections(d Document) []string {
	names := []string{"projects", "teamMembers", "dependencies", "leaveBlocks", "periodMarkers"}
	var out []string
	for i, raw := range d.collections() {
		if shapeOf(raw) == shapeArray {
			out = append(out, names[i])
		}
	}
	return out
}

func (d Document) collections() []json.RawMessage {
	return []json.RawMessage{d.Projects, d.TeamMembers, d.Dependencies, d.LeaveBlocks, d.PeriodMarkers}
}
