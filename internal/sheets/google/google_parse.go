package google

import (
	"fmt"
	"strconv"
	"strings"

	"worklog/internal/core"
)

// weekValues renders rows as a values matrix with the header first. Hours
// are written as numbers so the sheet can sum them.
func weekValues(rows []core.WorkLogRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(core.Columns))
	for i, c := range core.Columns {
		header[i] = c
	}
	out = append(out, header)
	for _, r := range core.Coerce(rows) {
		out = append(out, []interface{}{
			r.Date, r.Project, r.Task, r.Effort, r.Summary, r.InternalMeetings, r.ClientMeetings,
		})
	}
	return out
}

// parseWeekValues converts a values matrix (as returned by the Sheets API)
// back into rows. Columns are matched by header; the rest follows the same
// coercion as a week file.
func parseWeekValues(values [][]interface{}) ([]core.WorkLogRow, error) {
	if len(values) == 0 {
		return []core.WorkLogRow{}, nil
	}
	headers := toStrings(values[0])
	if indexOf(headers, core.ColDate) == -1 {
		return nil, fmt.Errorf("unexpected week sheet header: missing %q; got headers=%v", core.ColDate, headers)
	}

	rows := make([]core.WorkLogRow, 0, len(values)-1)
	for _, v := range values[1:] {
		cells := toStrings(v)
		raw := core.RawRow{}
		for i, h := range headers {
			if i < len(cells) {
				raw[h] = cells[i]
			}
		}
		rows = append(rows, core.CoerceRaw(raw))
	}
	return rows, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case string:
			out[i] = x
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}
