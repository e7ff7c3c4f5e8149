// TOML is the session file's envelope format, grounded on
// noisetorch's own config.go (toml.DecodeFile / toml.NewEncoder).
// Unlike noisetorch's flat config, a Session's payload is a graph and
// optional built plan, both of which are recursive structures with
// variable-length slices that don't map onto TOML's table model
// without a lot of ceremony. Rather than hand-write a TOML schema for
// Graph/BuiltGraph, this reuses the root package's existing JSON
// snapshot codec (serialize.go) and embeds the two payloads as plain
// strings inside an otherwise-ordinary TOML document, the same way a
// config file might embed a certificate PEM block: the scalars stay
// human-editable, the graph itself is opaque.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/atlas"
	"github.com/nical/rendergraph/geom"
)

// document is the on-disk TOML shape.
type document struct {
	GraphJSON      string `toml:"graph_json"`
	BuiltGraphJSON string `toml:"built_graph_json,omitempty"`

	Names map[string]uint32 `toml:"names"`

	SnapSize           int32 `toml:"snap_size"`
	SmallSizeThreshold int32 `toml:"small_size_threshold"`
	LargeSizeThreshold int32 `toml:"large_size_threshold"`

	DefaultWidth  int32 `toml:"default_width"`
	DefaultHeight int32 `toml:"default_height"`

	NextAutoName int `toml:"next_auto_name"`
}

func (s *Session) toDocument() (document, error) {
	graphJSON, err := json.Marshal(s.Graph.Snapshot())
	if err != nil {
		return document{}, fmt.Errorf("session: marshaling graph: %w", err)
	}

	doc := document{
		GraphJSON:          string(graphJSON),
		Names:              make(map[string]uint32, len(s.Names)),
		SnapSize:           s.AllocatorOptions.SnapSize,
		SmallSizeThreshold: s.AllocatorOptions.SmallSizeThreshold,
		LargeSizeThreshold: s.AllocatorOptions.LargeSizeThreshold,
		DefaultWidth:       s.DefaultSize.Width,
		DefaultHeight:      s.DefaultSize.Height,
		NextAutoName:       s.nextAutoName,
	}
	for name, id := range s.Names {
		doc.Names[name] = uint32(id)
	}

	if s.BuiltGraph != nil {
		builtJSON, err := json.Marshal(s.BuiltGraph.Snapshot())
		if err != nil {
			return document{}, fmt.Errorf("session: marshaling built graph: %w", err)
		}
		doc.BuiltGraphJSON = string(builtJSON)
	}

	return doc, nil
}

func fromDocument(doc document) (*Session, error) {
	var graphSnap rendergraph.GraphSnapshot
	if err := json.Unmarshal([]byte(doc.GraphJSON), &graphSnap); err != nil {
		return nil, fmt.Errorf("session: unmarshaling graph: %w", err)
	}

	s := &Session{
		Graph: rendergraph.GraphFromSnapshot(graphSnap),
		Names: make(map[string]rendergraph.NodeID, len(doc.Names)),
		AllocatorOptions: atlas.Options{
			SnapSize:           doc.SnapSize,
			SmallSizeThreshold: doc.SmallSizeThreshold,
			LargeSizeThreshold: doc.LargeSizeThreshold,
		},
		DefaultSize:  geom.Sz(doc.DefaultWidth, doc.DefaultHeight),
		nextAutoName: doc.NextAutoName,
	}
	for name, id := range doc.Names {
		s.Names[name] = rendergraph.NodeID(id)
	}

	if doc.BuiltGraphJSON != "" {
		var builtSnap rendergraph.BuiltGraphSnapshot
		if err := json.Unmarshal([]byte(doc.BuiltGraphJSON), &builtSnap); err != nil {
			return nil, fmt.Errorf("session: unmarshaling built graph: %w", err)
		}
		s.BuiltGraph = rendergraph.BuiltGraphFromSnapshot(builtSnap)
	}

	return s, nil
}

// Load reads and decodes a session file written by Save.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a session from its TOML-encoded bytes, the form
// RemoteStore.Get returns, so a session pulled from object storage
// round-trips through the same codec a local file does.
func Parse(data []byte) (*Session, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("session: decoding: %w", err)
	}
	return fromDocument(doc)
}

// Save encodes the session as TOML and writes it to path.
func (s *Session) Save(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("session: writing %s: %w", path, err)
	}
	return nil
}

// Encode renders the session as TOML bytes, the form RemoteStore.Put
// expects.
func (s *Session) Encode() ([]byte, error) {
	doc, err := s.toDocument()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("session: encoding: %w", err)
	}
	return buf.Bytes(), nil
}
