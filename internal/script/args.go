package script

import (
	"fmt"

	"go.starlark.net/starlark"
)

// TypeMismatchError reports a script value that does not satisfy a
// function's declared argument contract. Constructors abort on the first
// mismatch; no partial objects are produced.
type TypeMismatchError struct {
	Argument string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("argument %s expects type %s; got %s", e.Argument, e.Expected, e.Got)
}

func mismatch(name, expected string, got starlark.Value) error {
	return &TypeMismatchError{Argument: name, Expected: expected, Got: got.Type()}
}

func requiredString(name string, v starlark.Value) (string, error) {
	s, ok := v.(starlark.String)
	if !ok {
		return "", mismatch(name, "string", v)
	}
	return string(s), nil
}

// optionalString accepts a string or None. ok reports whether a string was
// given.
func optionalString(name string, v starlark.Value) (value string, ok bool, err error) {
	switch s := v.(type) {
	case starlark.NoneType:
		return "", false, nil
	case starlark.String:
		return string(s), true, nil
	default:
		return "", false, mismatch(name, "string", v)
	}
}

// requiredListOf checks that v is a list whose every element has the given
// type tag, and returns the elements.
func requiredListOf(name, elemType string, v starlark.Value) ([]starlark.Value, error) {
	list, ok := v.(*starlark.List)
	if !ok {
		return nil, mismatch(name, "list", v)
	}
	elems := make([]starlark.Value, list.Len())
	for i := 0; i < list.Len(); i++ {
		elem := list.Index(i)
		if elem.Type() != elemType {
			return nil, mismatch(name, elemType, elem)
		}
		elems[i] = elem
	}
	return elems, nil
}

// requiredDictOf checks that v is a dict whose keys and values have the
// given type tags, and returns its items in insertion order.
func requiredDictOf(name, keyType, valueType string, v starlark.Value) ([]starlark.Tuple, error) {
	dict, ok := v.(*starlark.Dict)
	if !ok {
		return nil, mismatch(name, "dict", v)
	}
	items := dict.Items()
	for _, item := range items {
		if item[0].Type() != keyType {
			return nil, mismatch(name, keyType, item[0])
		}
		if item[1].Type() != valueType {
			return nil, mismatch(name, valueType, item[1])
		}
	}
	return items, nil
}

// requiredExactType checks that v's type tag equals typeName exactly.
func requiredExactType(name, typeName string, v starlark.Value) error {
	if v.Type() != typeName {
		return mismatch(name, typeName, v)
	}
	return nil
}

// requiredStringList extracts a required list of strings.
func requiredStringList(name string, v starlark.Value) ([]string, error) {
	elems, err := requiredListOf(name, "string", v)
	if err != nil {
		return nil, err
	}
	return stringSlice(elems), nil
}

// optionalStringList accepts a list of strings or None.
func optionalStringList(name string, v starlark.Value) ([]string, bool, error) {
	if _, isNone := v.(starlark.NoneType); isNone {
		return nil, false, nil
	}
	values, err := requiredStringList(name, v)
	if err != nil {
		return nil, false, err
	}
	return values, true, nil
}

// stringOrStringList accepts a single string or a list of strings, the
// shape glob patterns arrive in.
func stringOrStringList(name string, v starlark.Value) ([]string, error) {
	switch s := v.(type) {
	case starlark.String:
		return []string{string(s)}, nil
	case *starlark.List:
		return requiredStringList(name, v)
	default:
		return nil, mismatch(name, "string or list of string", v)
	}
}

func stringSlice(elems []starlark.Value) []string {
	values := make([]string, len(elems))
	for i, elem := range elems {
		values[i] = string(elem.(starlark.String))
	}
	return values
}
