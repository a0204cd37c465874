package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ambuflow/ambuflow/core/dispatch"
	"github.com/ambuflow/ambuflow/core/model"
)

func sampleResult() *dispatch.Result {
	return &dispatch.Result{
		RoundID:   "r1",
		Status:    "optimal",
		TotalCost: 443.33,
		Assignments: []dispatch.Assignment{
			{
				VehicleID:    "Amb_002",
				VehicleClass: model.ClassMedium,
				IncidentNode: 1,
				Severity:     model.SeverityMedium,
				Priority:     2,
				TimeMin:      1.33,
				DistanceKm:   1,
				Path:         []int64{0, 1},
			},
			{
				VehicleID:    "Amb_001",
				VehicleClass: model.ClassLight,
				IncidentNode: 3,
				Severity:     model.SeverityLight,
				Priority:     1,
				TimeMin:      4,
				DistanceKm:   2,
				Path:         []int64{0, 1, 3},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var out dispatch.Result
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RoundID != "r1" || len(out.Assignments) != 2 {
		t.Fatalf("unexpected round %#v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult().Assignments); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows got %d", len(rows))
	}
	if rows[0][0] != "vehicle_id" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][7] != "0->1->3" {
		t.Fatalf("unexpected path column %q", rows[2][7])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("expected header only, got %d lines", got)
	}
}
