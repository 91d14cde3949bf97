package houses

const (
	ColHouseId           = "house_id"
	ColLatitude          = "latitude"
	ColLongitude         = "longitude"
	ColMaintenanceYear   = "maintenance_year"
	ColSquare            = "square"
	ColPopulation        = "population"
	ColRegion            = "region"
	ColLocalityName      = "locality_name"
	ColAddress           = "address"
	ColFullAddress       = "full_address"
	ColCommunalServiceId = "communal_service_id"
	ColDescription       = "description"
)

// Columns is the export order of the extract and the load table.
var Columns = []string{
	ColHouseId,
	ColLatitude,
	ColLongitude,
	ColMaintenanceYear,
	ColSquare,
	ColPopulation,
	ColRegion,
	ColLocalityName,
	ColAddress,
	ColFullAddress,
	ColCommunalServiceId,
	ColDescription,
}

// IntColumns are rendered without a decimal point.
var IntColumns = map[string]bool{
	ColMaintenanceYear: true,
	ColPopulation:      true,
}

// FloatColumns are rendered with Python float repr semantics.
var FloatColumns = map[string]bool{
	ColLatitude:          true,
	ColLongitude:         true,
	ColSquare:            true,
	ColCommunalServiceId: true,
}

const (
	MinValidYear = 1800
	MaxValidYear = 2025
)

// House is a single cleaned housing record.
// A nil pointer field is a null value.
type House struct {
	HouseId           *string  `json:"house_id"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	MaintenanceYear   *int64   `json:"maintenance_year"`
	Square            *float64 `json:"square"`
	Population        *int64   `json:"population"`
	Region            *string  `json:"region"`
	LocalityName      *string  `json:"locality_name"`
	Address           *string  `json:"address"`
	FullAddress       *string  `json:"full_address"`
	CommunalServiceId *float64 `json:"communal_service_id"`
	Description       *string  `json:"description"`
}

// FromRaw builds a House from a map of raw CSV values keyed by column name.
// Missing keys are treated as empty values.
func FromRaw(raw map[string]string) House {
	return House{
		HouseId:           ParseText(raw[ColHouseId]),
		Latitude:          ParseFloat(raw[ColLatitude]),
		Longitude:         ParseFloat(raw[ColLongitude]),
		MaintenanceYear:   ParseInt(raw[ColMaintenanceYear]),
		Square:            ParseSquare(raw[ColSquare]),
		Population:        ParseInt(raw[ColPopulation]),
		Region:            ParseText(raw[ColRegion]),
		LocalityName:      ParseText(raw[ColLocalityName]),
		Address:           ParseText(raw[ColAddress]),
		FullAddress:       ParseText(raw[ColFullAddress]),
		CommunalServiceId: ParseFloat(raw[ColCommunalServiceId]),
		Description:       ParseText(raw[ColDescription]),
	}
}

// YearIsValid returns false if y is null or outside [MinValidYear, MaxValidYear].
func YearIsValid(y *int64) bool {
	return y != nil && *y >= MinValidYear && *y <= MaxValidYear
}

// IsEmpty returns true when the identifying fields are all null.
func (h House) IsEmpty() bool {
	return h.HouseId == nil && h.Latitude == nil && h.Longitude == nil
}

// Values returns the 12 field values in Columns order.
// Each element is nil, string, float64 or int64.
func (h House) Values() []interface{} {
	return []interface{}{
		strOrNil(h.HouseId),
		floatOrNil(h.Latitude),
		floatOrNil(h.Longitude),
		intOrNil(h.MaintenanceYear),
		floatOrNil(h.Square),
		intOrNil(h.Population),
		strOrNil(h.Region),
		strOrNil(h.LocalityName),
		strOrNil(h.Address),
		strOrNil(h.FullAddress),
		floatOrNil(h.CommunalServiceId),
		strOrNil(h.Description),
	}
}

// Map returns the record keyed by column name with nil for nulls.
func (h House) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(Columns))
	for idx, v := range h.Values() {
		m[Columns[idx]] = v
	}
	return m
}

func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func floatOrNil(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func intOrNil(i *int64) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
