package dump

import (
	"fmt"
	"os"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// SnapshotExt is the conventional extension of snapshot files.
const SnapshotExt = ".cbor"

// MarshalSnapshot encodes a node as a CBOR map from endpoint ID to field
// struct.
func MarshalSnapshot(node Node) ([]byte, error) {
	m := make(map[uint16]tlv.Value, len(node))
	for _, ep := range node {
		if _, dup := m[uint16(ep.ID)]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateEndpoint, ep.ID)
		}
		m[uint16(ep.ID)] = ep.Fields
	}
	return tlv.MarshalCBOR(m)
}

// UnmarshalSnapshot decodes a snapshot produced by MarshalSnapshot.
// Endpoints are returned in ID order.
func UnmarshalSnapshot(data []byte) (Node, error) {
	m, err := tlv.UnmarshalCBOR[uint16](data)
	if err != nil {
		return nil, err
	}

	node := make(Node, 0, len(m))
	for id, v := range m {
		switch fields := v.(type) {
		case tlv.Struct:
			node = append(node, Endpoint{ID: EndpointID(id), Fields: fields})
		case tlv.DecodeFailure:
			// Keep the endpoint visible; its contents could not be decoded.
			node = append(node, Endpoint{ID: EndpointID(id), Fields: tlv.Struct{{ID: 0, Value: fields}}})
		default:
			return nil, fmt.Errorf("endpoint %d: expected struct, got %v", id, v.Kind())
		}
	}
	return node.Sorted(), nil
}

// SaveSnapshot writes a node snapshot to path.
func SaveSnapshot(path string, node Node) error {
	data, err := MarshalSnapshot(node)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a node snapshot from path.
func LoadSnapshot(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	node, err := UnmarshalSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return node, nil
}
