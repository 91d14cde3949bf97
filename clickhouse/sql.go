package clickhouse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/relloyd/housepipe/houses"
)

var reTableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

var columnTypes = map[string]string{
	houses.ColHouseId:           "String",
	houses.ColLatitude:          "Float64",
	houses.ColLongitude:         "Float64",
	houses.ColMaintenanceYear:   "Int32",
	houses.ColSquare:            "Float64",
	houses.ColPopulation:        "Int32",
	houses.ColRegion:            "String",
	houses.ColLocalityName:      "String",
	houses.ColAddress:           "String",
	houses.ColFullAddress:       "String",
	houses.ColCommunalServiceId: "Float64",
	houses.ColDescription:       "String",
}

// ValidateTableName accepts [database.]table made of letters, digits and underscores.
func ValidateTableName(table string) error {
	if !reTableName.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// InsertSQL returns the statement used for bulk loads into table.
func InsertSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %v FORMAT TabSeparated", table)
}

// TruncateSQL empties table.
func TruncateSQL(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %v", table)
}

// CreateTableDDL returns a MergeTree table matching the extract column order.
func CreateTableDDL(table string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %v\n(\n", table)
	for idx, c := range houses.Columns {
		fmt.Fprintf(&b, "    %v Nullable(%v)", c, columnTypes[c])
		if idx < len(houses.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")\nENGINE = MergeTree()\nORDER BY tuple()")
	return b.String()
}

// TopHousesQuery returns the largest houses with a square above minSquare, with a header row.
func TopHousesQuery(table string, minSquare float64, limit int) string {
	return fmt.Sprintf(`SELECT
    house_id,
    region,
    locality_name,
    address,
    square,
    maintenance_year,
    population
FROM %v
WHERE square > %v
ORDER BY square DESC
LIMIT %v
FORMAT TabSeparatedWithNames`, table, strconv.FormatFloat(minSquare, 'f', -1, 64), limit)
}
