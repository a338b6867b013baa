// Package input reads and writes the whitespace-delimited integer records used
// for worlds and assignments.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ridefleet/internal/model"
)

// ParseError reports a token that is not an integer.
type ParseError struct {
	Line  int
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid integer %q", e.Line, e.Token)
}

// FormatError reports a record with the wrong number of fields.
type FormatError struct {
	Line int
	Want int
	Got  int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: want %d fields, got %d", e.Line, e.Want, e.Got)
}

// ReadRecords parses one record of integers per non-blank line. Line numbers in
// errors count blank lines too.
func ReadRecords(r io.Reader) ([][]int, error) {
	var out [][]int
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		rec := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, &ParseError{Line: line, Token: f}
			}
			rec[i] = n
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func ReadFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ParseText is ReadRecords over a string.
func ParseText(s string) ([][]int, error) {
	return ReadRecords(strings.NewReader(s))
}

// BuildWorld turns a header record followed by ride records into a World. Ride
// ids are the record positions. Record i is reported as line i+1.
func BuildWorld(records [][]int) (*model.World, error) {
	if len(records) == 0 {
		return nil, &FormatError{Line: 1, Want: 6, Got: 0}
	}
	h := records[0]
	if len(h) != 6 {
		return nil, &FormatError{Line: 1, Want: 6, Got: len(h)}
	}
	header := model.Header{Rows: h[0], Cols: h[1], Vehicles: h[2], Rides: h[3], Bonus: h[4], Steps: h[5]}

	rides := make([]*model.Ride, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 6 {
			return nil, &FormatError{Line: i + 2, Want: 6, Got: len(rec)}
		}
		pickup, err := model.NewLocation(rec[0], rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		dropoff, err := model.NewLocation(rec[2], rec[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		r, err := model.NewRide(i, &pickup, &dropoff, rec[4], rec[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		rides = append(rides, r)
	}
	return model.NewWorld(header, rides)
}

// WriteAssignment writes one "count id id..." line per vehicle.
func WriteAssignment(w io.Writer, assignment [][]int) error {
	bw := bufio.NewWriter(w)
	for _, ids := range assignment {
		bw.WriteString(strconv.Itoa(len(ids)))
		for _, id := range ids {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(id))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// FormatRecords renders records as space-separated lines.
func FormatRecords(records [][]int) string {
	var b strings.Builder
	for _, rec := range records {
		for i, n := range rec {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(n))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// AssignmentRecords prefixes each vehicle's ride ids with their count.
func AssignmentRecords(assignment [][]int) [][]int {
	out := make([][]int, len(assignment))
	for i, ids := range assignment {
		out[i] = append([]int{len(ids)}, ids...)
	}
	return out
}
