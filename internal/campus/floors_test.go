package campus

import (
	"reflect"
	"testing"
)

func testNormalizer() *FloorNormalizer {
	return NewFloorNormalizer(
		map[string]string{"0": "EG", "-1": "U1", "00": "EG"},
		[]string{"U1", "EG", "01", "02", "03"},
	)
}

func TestNormalizeSubstitution(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"0", "EG"},
		{"00", "EG"},
		{"-1", "U1"},
		{"01", "01"},
		{"Z1", "Z1"}, // not in table: passes through
	}

	for _, tt := range tests {
		if got := n.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q): got %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeDiscoversNewLabels(t *testing.T) {
	n := testNormalizer()

	n.Normalize("Z1")
	n.Normalize("DG")
	n.Normalize("Z1") // repeat must not duplicate

	want := []string{"U1", "EG", "01", "02", "03", "Z1", "DG"}
	if got := n.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Labels: got %v, want %v", got, want)
	}
}

func TestCompareSeededOrder(t *testing.T) {
	n := testNormalizer()

	if n.Compare("U1", "EG") >= 0 {
		t.Error("U1 should sort before EG")
	}
	if n.Compare("03", "01") <= 0 {
		t.Error("03 should sort after 01")
	}
	if n.Compare("EG", "EG") != 0 {
		t.Error("equal labels should compare equal")
	}
}

func TestCompareUnknownAfterKnown(t *testing.T) {
	n := testNormalizer()

	// Unknown labels sort after all seeded ones, in encounter order.
	if n.Compare("Z9", "03") <= 0 {
		t.Error("unknown label should sort after known labels")
	}
	if n.Compare("Z9", "Z8") >= 0 {
		t.Error("Z9 was encountered before Z8 and should sort first")
	}
}
