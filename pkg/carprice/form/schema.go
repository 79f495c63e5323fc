package form

import (
	"errors"
	"fmt"
	"strings"
)

// Kind defines how a field's raw input is coerced
type Kind string

const (
	KindNumber      Kind = "number"
	KindInteger     Kind = "integer"
	KindCategorical Kind = "categorical"
)

const (
	VariantClassic  = "classic"
	VariantExtended = "extended"
	VariantCustom   = "custom"
)

var (
	ErrUnknownVariant = errors.New("unknown form variant")
	ErrInvalidSchema  = errors.New("invalid form schema")
)

// Option defines a named categorical code
type Option struct {
	Label string `json:"label" mapstructure:"label" validate:"required"`
	Code  int    `json:"code" mapstructure:"code" validate:"gte=0"`
}

// Field defines a single form input
type Field struct {
	Name        string   `json:"name" mapstructure:"name" validate:"required"`
	Label       string   `json:"label,omitempty" mapstructure:"label"`
	Kind        Kind     `json:"kind" mapstructure:"kind" validate:"required,oneof=number integer categorical"`
	Placeholder string   `json:"placeholder,omitempty" mapstructure:"placeholder"`
	Options     []Option `json:"options,omitempty" mapstructure:"options" validate:"dive"`
	// Default is the initial code of a categorical field. Nil means the first option.
	Default *int `json:"default,omitempty" mapstructure:"default"`
}

// Schema defines the ordered field set of a form variant
type Schema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Field returns the field with the given wire name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks the structural rules every schema must satisfy.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: schema %q has no fields", ErrInvalidSchema, s.Name)
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field name must not be empty", ErrInvalidSchema)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Kind {
		case KindNumber, KindInteger:
			if len(f.Options) > 0 {
				return fmt.Errorf("%w: %s field %q must not declare options", ErrInvalidSchema, f.Kind, f.Name)
			}
		case KindCategorical:
			if err := validateOptions(f); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalidSchema, f.Name, f.Kind)
		}
	}

	return nil
}

func validateOptions(f Field) error {
	if len(f.Options) == 0 {
		return fmt.Errorf("%w: categorical field %q has no options", ErrInvalidSchema, f.Name)
	}

	codes := make(map[int]struct{}, len(f.Options))
	for _, o := range f.Options {
		if _, dup := codes[o.Code]; dup {
			return fmt.Errorf("%w: field %q repeats code %d", ErrInvalidSchema, f.Name, o.Code)
		}
		codes[o.Code] = struct{}{}
	}

	if f.Default != nil {
		if _, ok := codes[*f.Default]; !ok {
			return fmt.Errorf("%w: field %q default %d is not an option", ErrInvalidSchema, f.Name, *f.Default)
		}
	}

	return nil
}

func (f Field) initialCode() int {
	if f.Default != nil {
		return *f.Default
	}
	return f.Options[0].Code
}

func (f Field) lookupOption(raw string) (Option, bool) {
	for _, o := range f.Options {
		if strings.EqualFold(o.Label, raw) {
			return o, true
		}
	}
	return Option{}, false
}

func (f Field) hasCode(code int) bool {
	for _, o := range f.Options {
		if o.Code == code {
			return true
		}
	}
	return false
}

var (
	fuelClassic = []Option{
		{Label: "Petrol", Code: 0},
		{Label: "Diesel", Code: 1},
		{Label: "CNG", Code: 2},
	}
	fuelExtended = []Option{
		{Label: "Petrol", Code: 0},
		{Label: "Diesel", Code: 1},
		{Label: "CNG", Code: 2},
		{Label: "LPG", Code: 3},
		{Label: "Electric", Code: 4},
	}
	sellerClassic = []Option{
		{Label: "Dealer", Code: 0},
		{Label: "Individual", Code: 1},
	}
	sellerExtended = []Option{
		{Label: "Dealer", Code: 0},
		{Label: "Individual", Code: 1},
		{Label: "Trustmark Dealer", Code: 2},
	}
	transmissions = []Option{
		{Label: "Manual", Code: 0},
		{Label: "Automatic", Code: 1},
	}
)

// Classic is the seven-field layout with present price in lakhs.
func Classic() Schema {
	return Schema{
		Name: VariantClassic,
		Fields: []Field{
			{Name: "Present_Price", Label: "Present Price (Lakhs)", Kind: KindNumber, Placeholder: "e.g., 5.59"},
			{Name: "Kms_Driven", Label: "Kilometers Driven", Kind: KindNumber, Placeholder: "e.g., 27000"},
			{Name: "Fuel_Type", Label: "Fuel Type", Kind: KindCategorical, Options: fuelClassic},
			{Name: "Seller_Type", Label: "Seller Type", Kind: KindCategorical, Options: sellerClassic},
			{Name: "Transmission", Label: "Transmission", Kind: KindCategorical, Options: transmissions},
			{Name: "Owner", Label: "Number of Previous Owners", Kind: KindInteger, Placeholder: "e.g., 0"},
			{Name: "Age", Label: "Age (Years)", Kind: KindNumber, Placeholder: "e.g., 8"},
		},
	}
}

// Extended is the eleven-field layout with engine and power attributes.
func Extended() Schema {
	return Schema{
		Name: VariantExtended,
		Fields: []Field{
			{Name: "km_driven", Label: "Kilometers Driven", Kind: KindNumber, Placeholder: "e.g., 70000"},
			{Name: "age", Label: "Age (Years)", Kind: KindNumber, Placeholder: "e.g., 10"},
			{Name: "fuel", Label: "Fuel Type", Kind: KindCategorical, Options: fuelExtended},
			{Name: "seller_type", Label: "Seller Type", Kind: KindCategorical, Options: sellerExtended},
			{Name: "transmission", Label: "Transmission", Kind: KindCategorical, Options: transmissions},
			{Name: "owner", Label: "Number of Previous Owners", Kind: KindNumber, Placeholder: "e.g., 1"},
			{Name: "mileage", Label: "Mileage (kmpl)", Kind: KindNumber, Placeholder: "e.g., 18.5"},
			{Name: "engine", Label: "Engine (CC)", Kind: KindNumber, Placeholder: "e.g., 1197"},
			{Name: "max_power", Label: "Max Power (bhp)", Kind: KindNumber, Placeholder: "e.g., 82"},
			{Name: "torque", Label: "Torque (Nm)", Kind: KindNumber, Placeholder: "e.g., 113"},
			{Name: "seats", Label: "Seats", Kind: KindNumber, Placeholder: "e.g., 5"},
		},
	}
}

// Lookup resolves a built-in variant by name. A custom variant is built
// from the given fields.
func Lookup(variant string, custom []Field) (Schema, error) {
	var s Schema
	switch variant {
	case VariantClassic, "":
		s = Classic()
	case VariantExtended:
		s = Extended()
	case VariantCustom:
		s = Schema{Name: VariantCustom, Fields: custom}
	default:
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}

	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}
