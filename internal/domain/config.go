package domain

// SimConfig holds the simulation parameters from cloth_input.txt.
// Immutable after parse. Raw keeps every key=value pair verbatim,
// including keys the typed fields do not cover.
type SimConfig struct {
	RoutingMethod        string `json:"routing_method"`
	MPP                  bool   `json:"mpp"`
	PaymentTimeout       int64  `json:"payment_timeout"` // ms
	GroupSize            int64  `json:"group_size"`
	AveragePaymentAmount int64  `json:"average_payment_amount"` // msat
	PaymentRate          int64  `json:"payment_rate"` // payments per second
	NPayments            int64  `json:"n_payments"`
	GroupCapUpdate       bool   `json:"group_cap_update"`

	Raw map[string]string `json:"raw,omitempty"`
}

// Config defaults applied when a key is missing from the input.
const (
	DefaultRoutingMethod        = "cloth_original"
	DefaultPaymentTimeout       = 60000
	DefaultGroupSize            = 5
	DefaultAveragePaymentAmount = 10000
	DefaultPaymentRate          = 1
)
