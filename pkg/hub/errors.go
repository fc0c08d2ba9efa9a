package hub

import "fmt"

// NotFoundError marks a lookup for something the catalog does not have.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// BadParameterError marks invalid request input, such as an unknown plugin
// type.
type BadParameterError struct {
	Message string
}

func (e *BadParameterError) Error() string {
	return e.Message
}

func variantNotFound(pluginName, variantName string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("Variant '%s' of '%s' not found", variantName, pluginName)}
}

func pluginNotFound(pluginType, pluginName string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("No plugin '%s' found in %s", pluginName, pluginType)}
}

func maintainerNotFound(id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("Maintainer '%s' not found", id)}
}
