// Package export renders dispatch plans for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ambuflow/ambuflow/core/dispatch"
)

// WriteJSON writes the round result to w in JSON format.
func WriteJSON(w io.Writer, res *dispatch.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes the assignments to w in CSV format, one row per vehicle.
func WriteCSV(w io.Writer, assignments []dispatch.Assignment) error {
	cw := csv.NewWriter(w)
	header := []string{"vehicle_id", "vehicle_class", "incident_node", "severity", "priority", "time_min", "distance_km", "path"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range assignments {
		rec := []string{
			a.VehicleID,
			string(a.VehicleClass),
			strconv.FormatInt(a.IncidentNode, 10),
			string(a.Severity),
			strconv.Itoa(a.Priority),
			strconv.FormatFloat(a.TimeMin, 'f', -1, 64),
			strconv.FormatFloat(a.DistanceKm, 'f', -1, 64),
			pathString(a.Path),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func pathString(path []int64) string {
	out := ""
	for i, n := range path {
		if i > 0 {
			out += "->"
		}
		out += fmt.Sprintf("%d", n)
	}
	return out
}
