package registry

import (
	"fmt"

	"github.com/arloliu/vpack/value"
)

// TemplateField is one entry of a Template: either a plain field key, or a
// key paired with a sub-template describing a nested container stored under
// that key.
type TemplateField struct {
	// Key is the container key the field value lives under. Any legal
	// container key works, including numbers, booleans and text.
	Key value.Value

	// Sub, when non-nil, declares that the value under Key is itself a
	// container encoded positionally with this sub-template.
	Sub Template
}

// Template is an ordered list of field keys for a type with a fixed, known
// field set. Encoding emits only the field values, positionally, in template
// order; keys and template shape are never written because the decoder reads
// the same template back out of the registry.
type Template []TemplateField

// Field creates a plain template field for key.
func Field(key value.Value) TemplateField {
	return TemplateField{Key: key}
}

// SubTemplate creates a template field whose value is a nested container
// encoded with sub.
func SubTemplate(key value.Value, sub Template) TemplateField {
	return TemplateField{Key: key, Sub: sub}
}

// validate checks that every key in the template (recursively) is a legal
// container key and that sub-templates are non-empty.
func (t Template) validate() error {
	if len(t) == 0 {
		return fmt.Errorf("template has no fields")
	}

	for i, f := range t {
		if err := value.CheckKey(f.Key); err != nil {
			return fmt.Errorf("template field %d: %w", i, err)
		}
		if f.Sub != nil {
			if err := f.Sub.validate(); err != nil {
				return fmt.Errorf("template field %d: %w", i, err)
			}
		}
	}

	return nil
}
