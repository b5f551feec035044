package officequery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

func renderOutput(format string, columns []string, rows []map[string]any) (string, error) {
	switch format {
	case "json":
		return renderJSON(columns, rows)
	case "table":
		return renderTable(columns, rows), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// renderJSON writes each row as an object whose keys follow column order,
// which encoding a map directly would not preserve.
func renderJSON(columns []string, rows []map[string]any) (string, error) {
	var raw bytes.Buffer
	raw.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			raw.WriteByte(',')
		}
		raw.WriteByte('{')
		for j, col := range columns {
			if j > 0 {
				raw.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return "", fmt.Errorf("marshal json output: %w", err)
			}
			val, err := json.Marshal(row[col])
			if err != nil {
				return "", fmt.Errorf("marshal json output: %w", err)
			}
			raw.Write(key)
			raw.WriteByte(':')
			raw.Write(val)
		}
		raw.WriteByte('}')
	}
	raw.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return "", fmt.Errorf("indent json output: %w", err)
	}
	return out.String(), nil
}

func renderTable(columns []string, rows []map[string]any) string {
	if len(columns) == 0 {
		return "No rows returned."
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = utf8.RuneCountInString(col)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			cells[r][i] = formatCellValue(row[col])
			widths[i] = max(widths[i], utf8.RuneCountInString(cells[r][i]))
		}
	}

	rule := tableRule(widths)
	lines := []string{rule, tableLine(columns, widths), rule}
	for _, line := range cells {
		lines = append(lines, tableLine(line, widths))
	}
	lines = append(lines, rule)
	if len(rows) == 0 {
		lines = append(lines, "(0 rows)")
	}

	return strings.Join(lines, "\n")
}

func tableRule(widths []int) string {
	segments := make([]string, len(widths))
	for i, w := range widths {
		segments[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(segments, "+") + "+"
}

func tableLine(values []string, widths []int) string {
	segments := make([]string, len(values))
	for i, v := range values {
		pad := widths[i] - utf8.RuneCountInString(v)
		segments[i] = " " + v + strings.Repeat(" ", pad) + " "
	}
	return "|" + strings.Join(segments, "|") + "|"
}

func formatCellValue(v any) string {
	if v == nil {
		return "NULL"
	}

	str := fmt.Sprintf("%v", v)
	str = strings.ReplaceAll(str, "\n", " ")
	return strings.ReplaceAll(str, "\r", " ")
}
