package dump

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mash-protocol/mash-dump/pkg/tagjson"
	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// EndpointID identifies an endpoint on a node.
type EndpointID uint16

// Endpoint is the field tree of one endpoint.
type Endpoint struct {
	ID     EndpointID
	Fields tlv.Struct
}

// Node is the full attribute tree of a device, one entry per endpoint.
type Node []Endpoint

// Endpoint returns the endpoint with the given ID.
func (n Node) Endpoint(id EndpointID) (Endpoint, bool) {
	for _, ep := range n {
		if ep.ID == id {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Sorted returns a copy of the node with endpoints ordered by ID.
func (n Node) Sorted() Node {
	out := slices.Clone(n)
	slices.SortStableFunc(out, func(a, b Endpoint) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// EndpointDocument is the annotated form of one endpoint.
type EndpointDocument struct {
	ID     EndpointID
	Object tagjson.Object
}

// Document is the annotated form of a node.
type Document []EndpointDocument

// Encode annotates every endpoint of the node. Any encoder error aborts the
// whole document; a partial dump would silently misrepresent the device.
func Encode(node Node) (Document, error) {
	doc := make(Document, 0, len(node))
	seen := make(map[EndpointID]struct{}, len(node))

	for _, ep := range node {
		if _, dup := seen[ep.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateEndpoint, ep.ID)
		}
		seen[ep.ID] = struct{}{}

		obj, err := tagjson.Encode(ep.Fields)
		if err != nil {
			return nil, fmt.Errorf("endpoint %d: %w", ep.ID, err)
		}
		doc = append(doc, EndpointDocument{ID: ep.ID, Object: obj})
	}
	return doc, nil
}

// Get returns the object for an endpoint.
func (d Document) Get(id EndpointID) (tagjson.Object, bool) {
	for _, ep := range d {
		if ep.ID == id {
			return ep.Object, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the document with endpoints in order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ep := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := ep.Object.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("endpoint %d: %w", ep.ID, err)
		}
		buf.WriteString(strconv.Quote(strconv.FormatUint(uint64(ep.ID), 10)))
		buf.WriteByte(':')
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseDocument reads an annotated JSON dump back into a node, endpoints
// ordered by ID. The top level must be an object with unique endpoint keys.
func ParseDocument(data []byte) (Node, error) {
	if err := checkEndpointKeys(data); err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dump: %w", err)
	}

	node := make(Node, 0, len(raw))
	for key, body := range raw {
		id, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, key)
		}
		fields, err := tagjson.Decode(body)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: %w", key, err)
		}
		node = append(node, Endpoint{ID: EndpointID(id), Fields: fields})
	}
	return node.Sorted(), nil
}

// checkEndpointKeys walks the top-level object and rejects anything that is
// not an object, and keys that repeat.
func checkEndpointKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to parse dump: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: dump must be an object, got %v", ErrInvalidDocument, tok)
	}

	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to parse dump: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: expected endpoint key, got %v", ErrInvalidDocument, tok)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateEndpoint, key)
		}
		seen[key] = struct{}{}

		if err := skipValue(dec); err != nil {
			return fmt.Errorf("endpoint %s: %w", key, err)
		}
	}
	return nil
}

// skipValue consumes one complete JSON value.
func skipValue(dec *json.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to parse dump: %w", err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// Diff compares two documents endpoint by endpoint. Paths are prefixed with
// the endpoint ID.
func Diff(a, b Document) []tagjson.Change {
	var changes []tagjson.Change

	for _, ep := range a {
		prefix := strconv.FormatUint(uint64(ep.ID), 10)
		other, ok := b.Get(ep.ID)
		if !ok {
			changes = append(changes, tagjson.Change{Path: prefix, Type: tagjson.ChangeRemoved, Old: ep.Object})
			continue
		}
		for _, c := range tagjson.Diff(ep.Object, other) {
			c.Path = prefix + "/" + c.Path
			changes = append(changes, c)
		}
	}
	for _, ep := range b {
		if _, ok := a.Get(ep.ID); !ok {
			prefix := strconv.FormatUint(uint64(ep.ID), 10)
			changes = append(changes, tagjson.Change{Path: prefix, Type: tagjson.ChangeAdded, New: ep.Object})
		}
	}
	return changes
}
