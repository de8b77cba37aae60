package delivery

import "aquaops/pkg/numerator"

const (
	// DefaultPrefix is the receipt prefix for deliveries.
	DefaultPrefix = "DLV"

	// EventRecorded is emitted once per committed delivery.
	EventRecorded = "delivery.recorded"
)

// NumberingConfig returns the receipt numbering: PREFIX-YYYY-00001, reset yearly.
func NumberingConfig(prefix string) numerator.Config {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return numerator.DefaultConfig(prefix)
}
