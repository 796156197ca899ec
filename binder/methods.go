package binder

import (
	"strings"
	"unicode/utf8"
)

// methodSpec describes one entry of the fixed method allow-list. Resolution
// is keyed by (receiver kind, name); nothing outside this table is callable
// from an expression, which keeps the reflective surface closed when the
// text is externally controlled.
type methodSpec struct {
	arity    int
	argKinds []valueKind
	result   valueKind
	apply    func(recv string, args []any) any
}

// stringMethods is the allow-list for string receivers. All arguments are
// strings; Length returns an integer so calls compose with relational
// operators.
var stringMethods = map[string]methodSpec{
	"Contains": {
		arity:    1,
		argKinds: []valueKind{kindString},
		result:   kindBool,
		apply: func(recv string, args []any) any {
			return strings.Contains(recv, args[0].(string))
		},
	},
	"StartsWith": {
		arity:    1,
		argKinds: []valueKind{kindString},
		result:   kindBool,
		apply: func(recv string, args []any) any {
			return strings.HasPrefix(recv, args[0].(string))
		},
	},
	"EndsWith": {
		arity:    1,
		argKinds: []valueKind{kindString},
		result:   kindBool,
		apply: func(recv string, args []any) any {
			return strings.HasSuffix(recv, args[0].(string))
		},
	},
	"ToLower": {
		arity:  0,
		result: kindString,
		apply: func(recv string, _ []any) any {
			return strings.ToLower(recv)
		},
	},
	"ToUpper": {
		arity:  0,
		result: kindString,
		apply: func(recv string, _ []any) any {
			return strings.ToUpper(recv)
		},
	},
	"Trim": {
		arity:  0,
		result: kindString,
		apply: func(recv string, _ []any) any {
			return strings.TrimSpace(recv)
		},
	},
	"Replace": {
		arity:    2,
		argKinds: []valueKind{kindString, kindString},
		result:   kindString,
		apply: func(recv string, args []any) any {
			return strings.ReplaceAll(recv, args[0].(string), args[1].(string))
		},
	},
	"Length": {
		arity:  0,
		result: kindInt,
		apply: func(recv string, _ []any) any {
			return int64(utf8.RuneCountInString(recv))
		},
	},
}
