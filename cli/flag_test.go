package cli

import (
	"testing"

	"github.com/ehri-project/ehri-explorer/api/geodata"
	"github.com/google/go-cmp/cmp"
)

func TestBBoxFlagSet(t *testing.T) {
	var f bboxFlag
	if err := f.Set("35,-10,60,30"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if !f.IsSet {
		t.Error("expected the flag to record it was set")
	}
	want := geodata.BBox{MinY: 35, MinX: -10, MaxY: 60, MaxX: 30}
	if diff := cmp.Diff(want, f.Value); diff != "" {
		t.Errorf("bbox mismatch (-want +got):\n%s", diff)
	}
	if got, want := f.String(), "35,-10,60,30"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBBoxFlagSetSpaces(t *testing.T) {
	var f bboxFlag
	if err := f.Set(" 35 , -10 , 60 , 30 "); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if f.Value.MaxX != 30 {
		t.Errorf("got MaxX %g, want 30", f.Value.MaxX)
	}
}

func TestBBoxFlagSetInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "too few", in: "35,-10,60"},
		{name: "too many", in: "35,-10,60,30,5"},
		{name: "not a number", in: "35,-10,north,30"},
		{name: "empty", in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f bboxFlag
			if err := f.Set(tt.in); err == nil {
				t.Errorf("Set(%q) succeeded, want an error", tt.in)
			}
		})
	}
}
