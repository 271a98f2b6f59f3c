package host

import "fmt"

// FormType is a reusable form definition consumed by form builders.
type FormType interface {
	Name() string
}

// FormTypes resolves the host's form type list.
func FormTypes(c *Container) ([]FormType, error) {
	return Resolve[[]FormType](c, KeyFormTypes)
}

// FindFormType returns the registered form type with the given name.
func FindFormType(c *Container, name string) (FormType, error) {
	types, err := FormTypes(c)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("form type %q: %w", name, ErrUnknownService)
}
