package idhash

import (
	"testing"
)

func TestComputeRunID(t *testing.T) {
	got := ComputeRunID("baseline", "/data/sim/baseline", 1700000000000)

	if len(got) != 64 {
		t.Errorf("ComputeRunID() length = %d, want 64", len(got))
	}

	// Same inputs should produce same output
	got2 := ComputeRunID("baseline", "/data/sim/baseline", 1700000000000)
	if got != got2 {
		t.Errorf("ComputeRunID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeRunID_DifferentInputs(t *testing.T) {
	base := ComputeRunID("baseline", "/data/sim/baseline", 1000)

	if base == ComputeRunID("other", "/data/sim/baseline", 1000) {
		t.Error("Different name should produce different hash")
	}
	if base == ComputeRunID("baseline", "/data/sim/other", 1000) {
		t.Error("Different source dir should produce different hash")
	}
	if base == ComputeRunID("baseline", "/data/sim/baseline", 2000) {
		t.Error("Different load time should produce different hash")
	}
}
