package parse

import (
	"strings"

	"ln-sim-viz/internal/domain"
)

// Config parses cloth_input.txt content: line-oriented key=value pairs.
// Blank lines and # comments are skipped, unknown keys are kept in Raw,
// missing keys fall back to their documented defaults.
func Config(data []byte) *domain.SimConfig {
	raw := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		raw[key] = value
	}

	cfg := &domain.SimConfig{
		RoutingMethod:        stringOr(raw, "routing_method", domain.DefaultRoutingMethod),
		MPP:                  parseBool(raw["mpp"]),
		PaymentTimeout:       intOr(raw, "payment_timeout", domain.DefaultPaymentTimeout),
		GroupSize:            intOr(raw, "group_size", domain.DefaultGroupSize),
		AveragePaymentAmount: intOr(raw, "average_payment_amount", domain.DefaultAveragePaymentAmount),
		PaymentRate:          intOr(raw, "payment_rate", domain.DefaultPaymentRate),
		NPayments:            intOr(raw, "n_payments", 0),
		GroupCapUpdate:       parseBool(raw["group_cap_update"]),
		Raw:                  raw,
	}
	return cfg
}

// stringOr returns the raw value for key, or def when the key is missing
// or empty.
func stringOr(raw map[string]string, key, def string) string {
	if v, ok := raw[key]; ok && v != "" {
		return v
	}
	return def
}

// intOr returns the integer value for key, or def when the key is missing
// or malformed.
func intOr(raw map[string]string, key string, def int64) int64 {
	v, ok := raw[key]
	if !ok {
		return def
	}
	n, err := parseIntStrict(v)
	if err != nil {
		return def
	}
	return n
}
