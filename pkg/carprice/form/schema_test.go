package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	classic, err := Lookup(VariantClassic, nil)
	require.NoError(t, err)
	assert.Len(t, classic.Fields, 7)

	def, err := Lookup("", nil)
	require.NoError(t, err)
	assert.Equal(t, VariantClassic, def.Name)

	extended, err := Lookup(VariantExtended, nil)
	require.NoError(t, err)
	assert.Len(t, extended.Fields, 11)

	_, err = Lookup("sport", nil)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestLookup_Custom(t *testing.T) {
	two := 2
	custom, err := Lookup(VariantCustom, []Field{
		{Name: "price", Kind: KindNumber},
		{Name: "body", Kind: KindCategorical, Default: &two, Options: []Option{
			{Label: "Sedan", Code: 0},
			{Label: "Hatchback", Code: 1},
			{Label: "SUV", Code: 2},
		}},
	})
	require.NoError(t, err)

	s := NewState(custom)
	v, _ := s.Get("body")
	code, _ := v.Code()
	assert.Equal(t, 2, code)
}

func TestSchema_Validate(t *testing.T) {
	nine := 9
	tests := []struct {
		name   string
		fields []Field
	}{
		{name: "empty", fields: nil},
		{name: "blank name", fields: []Field{{Kind: KindNumber}}},
		{name: "duplicate", fields: []Field{{Name: "a", Kind: KindNumber}, {Name: "a", Kind: KindNumber}}},
		{name: "unknown kind", fields: []Field{{Name: "a", Kind: "text"}}},
		{name: "categorical without options", fields: []Field{{Name: "a", Kind: KindCategorical}}},
		{name: "numeric with options", fields: []Field{{Name: "a", Kind: KindNumber, Options: []Option{{Label: "x"}}}}},
		{name: "repeated code", fields: []Field{{Name: "a", Kind: KindCategorical, Options: []Option{{Label: "x"}, {Label: "y"}}}}},
		{name: "bad default", fields: []Field{{Name: "a", Kind: KindCategorical, Default: &nine, Options: []Option{{Label: "x"}}}}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := Schema{Name: "t", Fields: tc.fields}.Validate()
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}
