// Package binder turns a parsed filter AST into a compiled predicate over a
// concrete struct type. Binding is a pure transformation: the AST is never
// mutated, member and method resolution happen once at bind time, and the
// resulting closure is safe for concurrent use.
package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shibukawa/filtex/parser"
	"github.com/shibukawa/filtex/tokenizer"
)

// valueKind is the static type of a bound sub-expression
type valueKind int

const (
	kindBool valueKind = iota
	kindInt            // carried as int64
	kindFloat          // carried as float64
	kindString
	kindNull   // the null literal
	kindObject // struct-typed member; only comparable against null
)

func (k valueKind) String() string {
	switch k {
	case kindBool:
		return "boolean"
	case kindInt:
		return "integer"
	case kindFloat:
		return "decimal"
	case kindString:
		return "string"
	case kindNull:
		return "null"
	case kindObject:
		return "object"
	default:
		return "unknown"
	}
}

// boundExpr pairs the static kind with an evaluator. Evaluators return one
// of bool, int64, float64, string or nil; nil means a pointer along a member
// path was nil at evaluation time.
type boundExpr struct {
	kind valueKind
	eval func(root reflect.Value) any
}

// Bind compiles an AST against the struct type T and returns a reusable
// goroutine-safe predicate. All semantic errors surface here, never at
// evaluation time.
func Bind[T any](node parser.Node) (func(T) bool, error) {
	rootType := reflect.TypeFor[T]()

	b := &binder{rootType: rootType}

	expr, err := b.bind(node)
	if err != nil {
		return nil, err
	}

	if expr.kind != kindBool {
		return nil, &EvaluationError{
			TargetType: rootType.String(),
			Message:    fmt.Sprintf("expression evaluates to %s, not boolean", expr.kind),
			err:        ErrTypeMismatch,
		}
	}

	eval := expr.eval

	return func(entity T) bool {
		result, _ := eval(reflect.ValueOf(entity)).(bool)
		return result
	}, nil
}

type binder struct {
	rootType reflect.Type
}

func (b *binder) bind(node parser.Node) (boundExpr, error) {
	switch n := node.(type) {
	case *parser.MemberNode:
		return b.bindMember(n)
	case *parser.ConstantNode:
		return b.bindConstant(n)
	case *parser.BinaryNode:
		return b.bindBinary(n)
	case *parser.UnaryNode:
		return b.bindUnary(n)
	case *parser.MethodCallNode:
		return b.bindMethodCall(n)
	default:
		// Unreachable: the parser produces a closed variant set
		return boundExpr{}, fmt.Errorf("%w: unknown node type %T", ErrUnsupportedOperator, node)
	}
}

// bindMember resolves each path segment against the declared type of the
// previous one, starting at the root type. The field index chain is fixed at
// bind time; evaluation only walks it.
func (b *binder) bindMember(n *parser.MemberNode) (boundExpr, error) {
	memberPath := strings.Join(n.Path, ".")

	t := b.rootType
	steps := make([][]int, 0, len(n.Path))

	for _, segment := range n.Path {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		if t.Kind() != reflect.Struct {
			return boundExpr{}, &EvaluationError{
				TargetType: t.String(),
				MemberPath: memberPath,
				Message:    fmt.Sprintf("cannot resolve %q on non-struct type", segment),
				err:        ErrUnknownMember,
			}
		}

		field, ok := t.FieldByName(segment)
		if !ok || field.PkgPath != "" {
			return boundExpr{}, &EvaluationError{
				TargetType: t.String(),
				MemberPath: memberPath,
				Message:    fmt.Sprintf("unknown member %q", segment),
				err:        ErrUnknownMember,
			}
		}

		steps = append(steps, field.Index)
		t = field.Type
	}

	leaf := t
	for leaf.Kind() == reflect.Pointer {
		leaf = leaf.Elem()
	}

	kind := kindOfType(leaf)

	eval := func(root reflect.Value) any {
		v := root
		for _, index := range steps {
			for _, i := range index {
				for v.Kind() == reflect.Pointer {
					if v.IsNil() {
						return nil
					}
					v = v.Elem()
				}
				v = v.Field(i)
			}
		}

		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}

		return canonicalValue(v, kind)
	}

	return boundExpr{kind: kind, eval: eval}, nil
}

func kindOfType(t reflect.Type) valueKind {
	switch t.Kind() {
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindInt
	case reflect.Float32, reflect.Float64:
		return kindFloat
	case reflect.String:
		return kindString
	default:
		return kindObject
	}
}

func canonicalValue(v reflect.Value, kind valueKind) any {
	switch kind {
	case kindBool:
		return v.Bool()
	case kindInt:
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return int64(v.Uint())
		default:
			return v.Int()
		}
	case kindFloat:
		return v.Float()
	case kindString:
		return v.String()
	default:
		return v.Interface()
	}
}

// bindConstant types a literal. The priority is fixed: the null keyword,
// then booleans, then integer, then decimal, then string. The tokenizer has
// already stripped quotes, so the literal class decides string-ness and a
// quoted "42" never becomes a number.
func (b *binder) bindConstant(n *parser.ConstantNode) (boundExpr, error) {
	switch n.Literal {
	case tokenizer.NULL:
		return boundExpr{kind: kindNull, eval: func(reflect.Value) any { return nil }}, nil
	case tokenizer.BOOLEAN:
		value := n.Raw == "true"
		return boundExpr{kind: kindBool, eval: func(reflect.Value) any { return value }}, nil
	case tokenizer.NUMBER:
		// strconv is locale-invariant by construction; the period is the
		// decimal separator regardless of host environment.
		if i, err := strconv.ParseInt(n.Raw, 10, 64); err == nil {
			return boundExpr{kind: kindInt, eval: func(reflect.Value) any { return i }}, nil
		}

		f, err := strconv.ParseFloat(n.Raw, 64)
		if err != nil {
			return boundExpr{}, &EvaluationError{
				TargetType: b.rootType.String(),
				Message:    fmt.Sprintf("invalid numeric literal %q", n.Raw),
				err:        ErrTypeMismatch,
			}
		}

		return boundExpr{kind: kindFloat, eval: func(reflect.Value) any { return f }}, nil
	default:
		value := n.Raw
		return boundExpr{kind: kindString, eval: func(reflect.Value) any { return value }}, nil
	}
}

func (b *binder) bindBinary(n *parser.BinaryNode) (boundExpr, error) {
	left, err := b.bind(n.Left)
	if err != nil {
		return boundExpr{}, err
	}

	right, err := b.bind(n.Right)
	if err != nil {
		return boundExpr{}, err
	}

	switch n.Op {
	case "&&", "||":
		return b.bindLogical(n.Op, left, right)
	case "==", "!=":
		return b.bindEquality(n.Op, left, right)
	case ">", ">=", "<", "<=":
		return b.bindOrdering(n.Op, left, right)
	default:
		// Unreachable: the parser only constructs operators from its table
		return boundExpr{}, fmt.Errorf("%w: %q", ErrUnsupportedOperator, n.Op)
	}
}

func (b *binder) bindLogical(op string, left, right boundExpr) (boundExpr, error) {
	if left.kind != kindBool || right.kind != kindBool {
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			Message:    fmt.Sprintf("operator %q requires boolean operands, got %s and %s", op, left.kind, right.kind),
			err:        ErrTypeMismatch,
		}
	}

	l, r := left.eval, right.eval

	var eval func(root reflect.Value) any
	if op == "&&" {
		eval = func(root reflect.Value) any {
			if v, _ := l(root).(bool); !v {
				return false
			}
			v, _ := r(root).(bool)
			return v
		}
	} else {
		eval = func(root reflect.Value) any {
			if v, _ := l(root).(bool); v {
				return true
			}
			v, _ := r(root).(bool)
			return v
		}
	}

	return boundExpr{kind: kindBool, eval: eval}, nil
}

func (b *binder) bindEquality(op string, left, right boundExpr) (boundExpr, error) {
	negate := op == "!="

	var compare func(l, r any) bool

	switch {
	case left.kind == kindNull || right.kind == kindNull:
		compare = func(l, r any) bool { return l == nil && r == nil }
	case isNumeric(left.kind) && isNumeric(right.kind):
		if left.kind == kindFloat || right.kind == kindFloat {
			compare = func(l, r any) bool {
				lf, lok := toFloat(l)
				rf, rok := toFloat(r)
				return lok && rok && lf == rf
			}
		} else {
			compare = func(l, r any) bool {
				li, lok := l.(int64)
				ri, rok := r.(int64)
				return lok && rok && li == ri
			}
		}
	case left.kind == right.kind && (left.kind == kindBool || left.kind == kindString):
		compare = func(l, r any) bool {
			if l == nil || r == nil {
				return l == nil && r == nil
			}
			return l == r
		}
	default:
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			Message:    fmt.Sprintf("cannot compare %s and %s with %q", left.kind, right.kind, op),
			err:        ErrTypeMismatch,
		}
	}

	l, r := left.eval, right.eval
	eval := func(root reflect.Value) any {
		result := compare(l(root), r(root))
		if negate {
			return !result
		}
		return result
	}

	return boundExpr{kind: kindBool, eval: eval}, nil
}

func (b *binder) bindOrdering(op string, left, right boundExpr) (boundExpr, error) {
	numeric := isNumeric(left.kind) && isNumeric(right.kind)
	stringly := left.kind == kindString && right.kind == kindString

	if !numeric && !stringly {
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			Message:    fmt.Sprintf("cannot order %s and %s with %q", left.kind, right.kind, op),
			err:        ErrTypeMismatch,
		}
	}

	var compare func(l, r any) bool

	if numeric {
		compare = func(l, r any) bool {
			lf, lok := toFloat(l)
			rf, rok := toFloat(r)
			if !lok || !rok {
				return false
			}
			return orderFloat(op, lf, rf)
		}

		// Pure integer comparisons stay exact
		if left.kind == kindInt && right.kind == kindInt {
			compare = func(l, r any) bool {
				li, lok := l.(int64)
				ri, rok := r.(int64)
				if !lok || !rok {
					return false
				}
				return orderInt(op, li, ri)
			}
		}
	} else {
		compare = func(l, r any) bool {
			ls, lok := l.(string)
			rs, rok := r.(string)
			if !lok || !rok {
				return false
			}
			return orderString(op, ls, rs)
		}
	}

	l, r := left.eval, right.eval
	eval := func(root reflect.Value) any {
		return compare(l(root), r(root))
	}

	return boundExpr{kind: kindBool, eval: eval}, nil
}

func (b *binder) bindUnary(n *parser.UnaryNode) (boundExpr, error) {
	if n.Op != "!" {
		// Unreachable through the public grammar
		return boundExpr{}, fmt.Errorf("%w: unary %q", ErrUnsupportedOperator, n.Op)
	}

	operand, err := b.bind(n.Operand)
	if err != nil {
		return boundExpr{}, err
	}

	if operand.kind != kindBool {
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			Message:    fmt.Sprintf("operator %q requires a boolean operand, got %s", "!", operand.kind),
			err:        ErrTypeMismatch,
		}
	}

	inner := operand.eval
	eval := func(root reflect.Value) any {
		v, _ := inner(root).(bool)
		return !v
	}

	return boundExpr{kind: kindBool, eval: eval}, nil
}

func (b *binder) bindMethodCall(n *parser.MethodCallNode) (boundExpr, error) {
	memberPath := n.Target.String() + "." + n.Name

	target, err := b.bind(n.Target)
	if err != nil {
		return boundExpr{}, err
	}

	if target.kind == kindNull {
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			MemberPath: memberPath,
			Message:    fmt.Sprintf("cannot call %q on null", n.Name),
			err:        ErrNullCallTarget,
		}
	}

	if target.kind != kindString {
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			MemberPath: memberPath,
			Message:    fmt.Sprintf("no method %q on %s", n.Name, target.kind),
			err:        ErrUnknownMethod,
		}
	}

	spec, ok := stringMethods[n.Name]
	if !ok {
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			MemberPath: memberPath,
			Message:    fmt.Sprintf("unknown method %q", n.Name),
			err:        ErrUnknownMethod,
		}
	}

	if len(n.Args) != spec.arity {
		return boundExpr{}, &EvaluationError{
			TargetType: b.rootType.String(),
			MemberPath: memberPath,
			Message:    fmt.Sprintf("method %q takes %d argument(s), got %d", n.Name, spec.arity, len(n.Args)),
			err:        ErrUnknownMethod,
		}
	}

	args := make([]boundExpr, len(n.Args))
	for i, argNode := range n.Args {
		arg, err := b.bind(argNode)
		if err != nil {
			return boundExpr{}, err
		}

		if arg.kind != spec.argKinds[i] {
			return boundExpr{}, &EvaluationError{
				TargetType: b.rootType.String(),
				MemberPath: memberPath,
				Message:    fmt.Sprintf("method %q argument %d must be %s, got %s", n.Name, i+1, spec.argKinds[i], arg.kind),
				err:        ErrTypeMismatch,
			}
		}

		args[i] = arg
	}

	targetEval := target.eval
	apply := spec.apply

	eval := func(root reflect.Value) any {
		recv, ok := targetEval(root).(string)
		if !ok {
			// nil pointer target at evaluation time
			return nil
		}

		values := make([]any, len(args))
		for i, arg := range args {
			v := arg.eval(root)
			if v == nil {
				return nil
			}
			values[i] = v
		}

		return apply(recv, values)
	}

	return boundExpr{kind: spec.result, eval: eval}, nil
}

func isNumeric(k valueKind) bool {
	return k == kindInt || k == kindFloat
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func orderInt(op string, l, r int64) bool {
	switch op {
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "<":
		return l < r
	default:
		return l <= r
	}
}

func orderFloat(op string, l, r float64) bool {
	switch op {
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "<":
		return l < r
	default:
		return l <= r
	}
}

func orderString(op string, l, r string) bool {
	switch op {
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "<":
		return l < r
	default:
		return l <= r
	}
}
