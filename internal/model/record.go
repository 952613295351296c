package model

// Record is one measurement observation read from the input file.
// Records are passed by value and never modified after construction.
type Record struct {
	// Year is the observation year. The loader does not restrict its range.
	Year int `json:"year"`

	// Region is the region identifier exactly as it appears in the input,
	// including case and surrounding whitespace.
	Region string `json:"region"`

	// Value is the measurement, parsed from a decimal-comma string.
	Value float64 `json:"value"`
}

// NewRecord creates a Record.
func NewRecord(year int, region string, value float64) Record {
	return Record{
		Year:   year,
		Region: region,
		Value:  value,
	}
}
