package dump

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// SessionReader reads attributes from a remote device.
// A controller's device session satisfies it.
type SessionReader interface {
	DeviceID() string
	Read(ctx context.Context, endpointID uint8, featureID uint8, attrIDs []uint16) (map[uint16]any, error)
}

// Layout lists the features to read on each endpoint.
type Layout map[uint8][]uint8

// Count returns the number of features in the layout.
func (l Layout) Count() int {
	n := 0
	for _, features := range l {
		n += len(features)
	}
	return n
}

// Collector reads a whole node through a session.
type Collector struct {
	session SessionReader
	logger  *slog.Logger
	label   string
}

// NewCollector creates a collector for the given session. The label is
// attached to every log record, so callers can tell dumps apart.
func NewCollector(session SessionReader, logger *slog.Logger, label string) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		session: session,
		logger:  logger,
		label:   label,
	}
}

// Collect reads every feature in the layout. Each endpoint becomes a struct
// keyed by feature ID whose values are the attribute structs returned by the
// device.
//
// A failed read is stored as a decode failure under its feature and the walk
// continues. Collect fails only when the context ends or when not a single
// read succeeded.
func (c *Collector) Collect(ctx context.Context, layout Layout) (Node, error) {
	if layout.Count() == 0 {
		return nil, ErrEmptyLayout
	}

	logger := c.logger.With(
		slog.String("label", c.label),
		slog.String("run_id", uuid.NewString()),
		slog.String("device_id", c.session.DeviceID()),
	)
	start := time.Now()

	endpoints := make([]uint8, 0, len(layout))
	for ep := range layout {
		endpoints = append(endpoints, ep)
	}
	slices.Sort(endpoints)

	var (
		node     Node
		total    int
		okCount  int
		firstErr error
	)
	for _, ep := range endpoints {
		features := slices.Clone(layout[ep])
		slices.Sort(features)
		features = slices.Compact(features)

		total += len(features)

		fields := make(tlv.Struct, 0, len(features))
		for _, feat := range features {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			// nil attribute list reads all attributes
			attrs, err := c.session.Read(ctx, ep, feat, nil)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				logger.Warn("feature read failed",
					slog.Int("endpoint", int(ep)),
					slog.Int("feature", int(feat)),
					slog.String("error", err.Error()))
				if firstErr == nil {
					firstErr = fmt.Errorf("endpoint %d feature %d: %w", ep, feat, err)
				}
				fields = append(fields, tlv.Field{ID: tlv.FieldID(feat), Value: tlv.FromAny(err)})
				continue
			}

			okCount++
			logger.Debug("feature read",
				slog.Int("endpoint", int(ep)),
				slog.Int("feature", int(feat)),
				slog.Int("attributes", len(attrs)))
			fields = append(fields, tlv.Field{ID: tlv.FieldID(feat), Value: tlv.FromAny(attrs)})
		}
		node = append(node, Endpoint{ID: EndpointID(ep), Fields: fields})
	}

	if okCount == 0 {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, firstErr)
	}

	logger.Info("node collected",
		slog.Int("endpoints", len(node)),
		slog.Int("features", total),
		slog.Int("failed", total-okCount),
		slog.Duration("elapsed", time.Since(start)))
	return node, nil
}
