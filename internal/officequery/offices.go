package officequery

import (
	"fmt"
	"sort"
	"strings"
)

const employeesTable = "employees"

var officeLookup = map[string]string{
	"1": "San Francisco, CA",
	"2": "Boston, MA",
	"3": "New York, NY",
	"4": "Paris, France",
	"5": "Tokyo, Japan",
}

// OfficeFor returns the display location for an office code. Codes outside
// the lookup report false rather than falling through to a default.
func OfficeFor(code string) (string, bool) {
	office, ok := officeLookup[code]
	return office, ok
}

func officeCodes() []string {
	codes := make([]string, 0, len(officeLookup))
	for code := range officeLookup {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// officeCaseExpr renders the lookup as a CASE expression without an ELSE
// branch, so unmapped codes come back as NULL.
func officeCaseExpr(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	b.WriteByte('\n')
	for _, code := range officeCodes() {
		fmt.Fprintf(&b, "       WHEN %s THEN %s\n", sqlQuote(code), sqlQuote(officeLookup[code]))
	}
	b.WriteString("       END")
	return b.String()
}

func sqlQuote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

type preset struct {
	Name     string
	Summary  string
	SQL      string
	Limit    int
	Requires []string
}

const defaultPreset = "offices"

var presets = []preset{
	{
		Name:    "employees",
		Summary: "every column of every employee",
		SQL:     "SELECT *\n  FROM " + employeesTable,
	},
	{
		Name:     "names",
		Summary:  "first and last names",
		SQL:      "SELECT firstName, lastName\n  FROM " + employeesTable,
		Limit:    5,
		Requires: []string{"firstName", "lastName"},
	},
	{
		Name:     "first-names",
		Summary:  "first names only, as name",
		SQL:      "SELECT firstName AS name\n  FROM " + employeesTable,
		Limit:    5,
		Requires: []string{"firstName"},
	},
	{
		Name:    "roles",
		Summary: "sales reps versus everyone else",
		SQL: "SELECT firstName, lastName, jobTitle,\n" +
			"       CASE\n" +
			"       WHEN jobTitle = 'Sales Rep' THEN 'Sales Rep'\n" +
			"       ELSE 'Not Sales Rep'\n" +
			"       END AS role\n" +
			"  FROM " + employeesTable,
		Limit:    10,
		Requires: []string{"firstName", "lastName", "jobTitle"},
	},
	{
		Name:    "offices",
		Summary: "employees with their office location",
		SQL: "SELECT firstName, lastName, officeCode,\n" +
			"       " + officeCaseExpr("officeCode") + " AS office\n" +
			"  FROM " + employeesTable,
		Limit:    10,
		Requires: []string{"firstName", "lastName", "officeCode"},
	},
}

// query returns the preset's SQL bounded to limit rows; limit <= 0 leaves it
// unbounded.
func (p preset) query(limit int) string {
	if limit <= 0 {
		return p.SQL
	}
	return fmt.Sprintf("%s\n LIMIT %d", p.SQL, limit)
}

func lookupPreset(name string) (preset, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == n {
			return p, nil
		}
	}
	return preset{}, fmt.Errorf("unsupported --query %q (expected %s)", name, strings.Join(presetNames(), "|"))
}

func presetNames() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	return names
}
