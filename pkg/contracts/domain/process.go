package domain

// VegetationType pairs a vegetation community code with its display name.
type VegetationType struct {
	Code string `json:"code" yaml:"code" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

// TimePeriod names a climate period and the AET and Deficit columns that
// hold its values.
type TimePeriod struct {
	Label         string `json:"label" yaml:"label" validate:"required"`
	AETColumn     string `json:"aet_column" yaml:"aet_column" validate:"required"`
	DeficitColumn string `json:"deficit_column" yaml:"deficit_column" validate:"required"`
}

// SourceStyle is the marker style used for one data source.
// Size is the marker area in points squared; Color is a #rrggbb hex string.
type SourceStyle struct {
	Size  float64 `json:"size" yaml:"size" validate:"gt=0"`
	Color string  `json:"color" yaml:"color" validate:"required,hexcolor"`
}
