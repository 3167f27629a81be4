package design

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/backbone/pkg/errors"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings in help-text order.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported design format %q", s)
}

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Read decodes a design from r.
//
// Children and constraints without a URI are given a stable name-based
// "urn:uuid:" identifier, and locations without one are named after their
// owning part, so the same document always yields the same identifiers.
// Read does not close r.
func Read(r io.Reader, format Format) (*Design, error) {
	var d Design
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&d)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&d)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&d)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported design format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s", format)
	}
	d.assignURIs()
	return &d, nil
}

// ReadFile reads the design at path, inferring the format from its extension.
func ReadFile(path string) (*Design, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Write encodes d to w.
func Write(w io.Writer, d *Design, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(d)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported design format %q", format)
}

func (d *Design) assignURIs() {
	scope := d.URI
	if scope == "" {
		scope = d.Name
	}
	for i, p := range d.Children {
		if p == nil {
			continue
		}
		if p.URI == "" {
			p.URI = stableURI(scope, "child", strconv.Itoa(i), p.Name)
		}
		for j := range p.Locations {
			if p.Locations[j].URI == "" {
				p.Locations[j].URI = LocationURI(p.URI, j)
			}
		}
	}
	for i := range d.Constraints {
		c := &d.Constraints[i]
		if c.URI == "" {
			c.URI = stableURI(scope, "constraint", strconv.Itoa(i), c.Subject, c.Object)
		}
	}
}

func stableURI(parts ...string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(parts, "\x00")))
	return "urn:uuid:" + id.String()
}
