package input

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ridefleet/internal/model"
	"ridefleet/internal/score"
)

const sampleWorld = `3 4 2 3 2 10
0 0 1 3 2 9
1 2 1 0 0 9

2 0 2 2 0 9
`

func TestBuildWorld(t *testing.T) {
	recs, err := ParseText(sampleWorld)
	if err != nil {
		t.Fatal(err)
	}
	w, err := BuildWorld(recs)
	if err != nil {
		t.Fatal(err)
	}
	if w.Rows != 3 || w.Cols != 4 || w.Vehicles != 2 || w.RideCount != 3 || w.Bonus != 2 || w.Steps != 10 {
		t.Fatalf("header = %+v", w)
	}
	if len(w.Rides) != 3 {
		t.Fatalf("rides = %d", len(w.Rides))
	}
	r := w.Ride(0)
	if r.Distance() != 4 || r.LatestStart() != 5 || r.EarliestStart() != 2 {
		t.Fatalf("ride 0 = %v", r)
	}
	if w.Ride(2).ID() != 2 {
		t.Fatalf("ride ids follow record order")
	}
}

func TestReadRecordsParseError(t *testing.T) {
	_, err := ParseText("1 2 3\n\n4 x 6\n")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v", err)
	}
	if pe.Line != 3 || pe.Token != "x" {
		t.Fatalf("parse error = %+v", pe)
	}
}

func TestBuildWorldFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
		got  int
	}{
		{"empty", "", 1, 0},
		{"short header", "1 2 3\n", 1, 3},
		{"short ride", "3 4 2 2 2 10\n0 0 1 3 2 9\n0 0 1\n", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := ParseText(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			_, err = BuildWorld(recs)
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Line != tt.line || fe.Got != tt.got || fe.Want != 6 {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestBuildWorldNegativeCoordinate(t *testing.T) {
	recs, _ := ParseText("3 4 1 1 2 10\n0 -1 1 3 2 9\n")
	_, err := BuildWorld(recs)
	if !errors.Is(err, model.ErrInvalidCoordinate) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeclaredCountKeptForValidation(t *testing.T) {
	// five rides declared, one loaded
	recs, _ := ParseText("3 4 1 5 2 10\n0 0 1 3 0 9\n")
	w, err := BuildWorld(recs)
	if err != nil {
		t.Fatal(err)
	}
	if w.RideCount != 5 || len(w.Rides) != 1 {
		t.Fatalf("counts = %d/%d", w.RideCount, len(w.Rides))
	}
	_, err = score.Evaluate(w, [][]int{{1, 3}})
	var ir *score.InvalidRideError
	if !errors.As(err, &ir) {
		t.Fatalf("err = %v", err)
	}
}

func TestAssignmentRoundTrip(t *testing.T) {
	in := [][]int{{1, 0}, {}, {2, 2, 1}}
	var buf bytes.Buffer
	if err := WriteAssignment(&buf, in); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1 1\n0\n2 2 1\n" {
		t.Fatalf("written = %q", buf.String())
	}
	recs, err := ReadRecords(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if FormatRecords(recs) != FormatRecords(AssignmentRecords(in)) {
		t.Fatalf("round trip = %v", recs)
	}
}

func TestReadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "w.in")
	if err := os.WriteFile(p, []byte(sampleWorld), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("records = %d", len(recs))
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if err := os.WriteFile(p, []byte("1 2\nz\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(p)
	if err == nil || !strings.Contains(err.Error(), p) {
		t.Fatalf("err = %v", err)
	}
}
