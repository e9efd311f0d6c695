package domain

// FieldKind tells the UI how to render a form field.
type FieldKind string

const (
	FieldKindChoice   FieldKind = "choice"
	FieldKindText     FieldKind = "text"
	FieldKindNumber   FieldKind = "number"
	FieldKindInteger  FieldKind = "integer"
	FieldKindCheckbox FieldKind = "checkbox"
)

// UnknownCategory is the default for categorical fields entered as free text.
const UnknownCategory = "Unknown"

// FeatureCategories maps a categorical field to its training-time vocabulary.
type FeatureCategories map[string][]string

// FormField describes one input of the prediction form.
type FormField struct {
	Name     string
	Label    string
	Kind     FieldKind
	Options  []string
	Default  any
	Min      *float64
	Max      *float64
	Step     *float64
	Optional bool
}

// FormSchema is the ordered list of fields rendered by the UI.
type FormSchema struct {
	Fields []FormField
	// CategoriesAvailable is false when the model's vocabularies could not be read.
	CategoriesAvailable bool
}

// Field returns the field with the given name.
func (s FormSchema) Field(name string) (FormField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FormField{}, false
}
