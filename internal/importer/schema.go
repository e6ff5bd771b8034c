// Package importer reads and writes whole roadmap documents as JSON or YAML
// files and validates them before they replace the live roadmap.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/wire"
)

// Format selects the file encoding of an exported or imported document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json or yaml)", s)
	}
}

// FormatForPath guesses the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a document in either wire shape from body.
func Parse(body []byte, format Format) (domain.RoadmapData, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(body)
		if err != nil {
			return domain.RoadmapData{}, fmt.Errorf("parsing yaml document: %w", err)
		}
		body = converted
	}
	doc, err := wire.Decode(body)
	if err != nil {
		return domain.RoadmapData{}, err
	}
	return wire.FromWireFormat(doc)
}

// LoadFile reads and parses a roadmap document file.
func LoadFile(path string) (domain.RoadmapData, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return domain.RoadmapData{}, err
	}
	data, err := Parse(body, FormatForPath(path))
	if err != nil {
		return domain.RoadmapData{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// Render encodes data in the keyed wire shape, indented for reading.
func Render(data domain.RoadmapData, format Format) ([]byte, error) {
	doc, err := wire.ToWireFormat(data)
	if err != nil {
		return nil, err
	}
	body, err := doc.Encode()
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return jsonToYAML(body)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
