package forms

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Schema describes the cleaned payload of form as an OpenAPI object schema.
// Static choices become enums; dynamic sources only constrain the type.
func Schema(form *Form) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	if form == nil {
		return schema
	}
	schema.Title = form.Name()

	for _, field := range form.fields {
		property := fieldSchema(field)
		property.Title = field.Label
		property.Description = field.HelpText
		schema.WithProperty(field.Name, property)
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema
}

func fieldSchema(field Field) *openapi3.Schema {
	switch field.Kind {
	case KindChar:
		s := openapi3.NewStringSchema()
		if field.MaxLength > 0 {
			s.WithMaxLength(int64(field.MaxLength))
		}
		if field.Required {
			s.WithMinLength(1)
		}
		return s
	case KindText:
		return openapi3.NewStringSchema()
	case KindInteger:
		return nullable(openapi3.NewInt64Schema(), !field.Required)
	case KindBoolean:
		return openapi3.NewBoolSchema()
	case KindNullBoolean:
		return nullable(openapi3.NewBoolSchema(), !field.Required)
	case KindChoice:
		s := openapi3.NewStringSchema()
		if values := staticChoiceValues(field); len(values) > 0 {
			s.WithEnum(values...)
		}
		return nullable(s, !field.Required)
	case KindModelChoice:
		return nullable(openapi3.NewInt64Schema(), !field.Required)
	case KindModelMultipleChoice:
		return openapi3.NewArraySchema().WithItems(openapi3.NewInt64Schema())
	default:
		return openapi3.NewStringSchema()
	}
}

func nullable(s *openapi3.Schema, ok bool) *openapi3.Schema {
	if ok {
		return s.WithNullable()
	}
	return s
}

func staticChoiceValues(field Field) []any {
	if field.Source != nil {
		return nil
	}
	values := make([]any, 0, len(field.Choices))
	for _, choice := range field.Choices {
		if key := choiceKey(choice.Value); key != "" {
			values = append(values, key)
		}
	}
	return values
}
