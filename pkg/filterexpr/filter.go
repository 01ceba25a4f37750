// Package filterexpr parses a small CEL subset into predicates that can be
// evaluated against in-memory records, plus a two-key order_by syntax.
package filterexpr

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ValueKind describes the kind of literal value a field accepts.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
)

// Op represents a supported comparison operation.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// FieldRule declares the kind of a filterable field and the operators allowed on it.
type FieldRule struct {
	Kind ValueKind
	Ops  []Op
}

// Predicate is one validated comparison. Value is a string, float64 or []string.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Parse turns a conjunction such as `difficulty == 'Hard' && times_reviewed >= 3`
// into predicates. An empty filter yields no predicates.
func Parse(filter string, fields map[string]FieldRule) ([]Predicate, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}
	if len(fields) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := buildEnv(fields)
	if err != nil {
		return nil, err
	}

	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}

	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to convert AST: %w", err)
	}
	conjuncts, err := extractConjuncts(parsed.GetExpr())
	if err != nil {
		return nil, err
	}

	preds := make([]Predicate, 0, len(conjuncts))
	for _, expr := range conjuncts {
		pred, err := parseAtomicPredicate(expr)
		if err != nil {
			return nil, err
		}
		rule, ok := fields[pred.Field]
		if !ok {
			return nil, fmt.Errorf("field %q is not allowed", pred.Field)
		}
		if !slices.Contains(rule.Ops, pred.Op) {
			return nil, fmt.Errorf("operator %q is not allowed for field %q", string(pred.Op), pred.Field)
		}
		if err := validateLiteral(rule.Kind, pred.Op, pred.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", pred.Field, err)
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

// Match reports whether value satisfies the predicate. value must be a string
// for string fields and a float64 for number fields.
func (p Predicate) Match(value any) bool {
	switch v := value.(type) {
	case string:
		switch p.Op {
		case OpEQ:
			return v == p.Value
		case OpGTE:
			s, _ := p.Value.(string)
			return v >= s
		case OpLTE:
			s, _ := p.Value.(string)
			return v <= s
		case OpSW:
			s, _ := p.Value.(string)
			return strings.HasPrefix(v, s)
		case OpIN:
			list, _ := p.Value.([]string)
			return slices.Contains(list, v)
		}
	case float64:
		n, ok := p.Value.(float64)
		if !ok {
			return false
		}
		switch p.Op {
		case OpEQ:
			return v == n
		case OpGTE:
			return v >= n
		case OpLTE:
			return v <= n
		}
	}
	return false
}

// MatchAll reports whether every predicate holds; lookup returns a field's value.
func MatchAll(preds []Predicate, lookup func(field string) any) bool {
	for _, p := range preds {
		if !p.Match(lookup(p.Field)) {
			return false
		}
	}
	return true
}

func buildEnv(fields map[string]FieldRule) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		switch rule.Kind {
		case KindString:
			opts = append(opts, cel.Variable(name, cel.StringType))
		case KindNumber:
			opts = append(opts, cel.Variable(name, cel.DoubleType))
		default:
			return nil, fmt.Errorf("field %q: unsupported field kind %s", name, rule.Kind)
		}
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func extractConjuncts(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}

	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}

	switch call.Function {
	case "_&&_":
		var result []*exprpb.Expr
		for _, arg := range call.Args {
			conjuncts, err := extractConjuncts(arg)
			if err != nil {
				return nil, err
			}
			result = append(result, conjuncts...)
		}
		return result, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func parseAtomicPredicate(expr *exprpb.Expr) (Predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return Predicate{}, errors.New("unsupported expression; expected comparison or function call")
	}

	switch call.Function {
	case "_==_":
		return parseBinary(call, OpEQ)
	case "_>=_":
		return parseBinary(call, OpGTE)
	case "_<=_":
		return parseBinary(call, OpLTE)
	case "@in":
		return parseBinary(call, OpIN)
	case "startsWith":
		if call.Target == nil || len(call.Args) != 1 {
			return Predicate{}, errors.New("startsWith must be called on a field with one argument")
		}
		return buildPredicate(call.Target, call.Args[0], OpSW)
	default:
		return Predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

func parseBinary(call *exprpb.Expr_Call, op Op) (Predicate, error) {
	if call.Target != nil || len(call.Args) != 2 {
		return Predicate{}, fmt.Errorf("operator %q expects two operands", string(op))
	}
	return buildPredicate(call.Args[0], call.Args[1], op)
}

func buildPredicate(fieldExpr, valueExpr *exprpb.Expr, op Op) (Predicate, error) {
	ident := fieldExpr.GetIdentExpr()
	if ident == nil {
		return Predicate{}, errors.New("left-hand side must be an identifier")
	}
	value, err := parseLiteral(valueExpr)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		switch constant.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return constant.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(constant.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(constant.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return constant.GetDoubleValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elements := list.GetElements()
		values := make([]string, len(elements))
		for i, elem := range elements {
			str := elem.GetConstExpr().GetStringValue()
			if elem.GetConstExpr() == nil || str == "" {
				return nil, fmt.Errorf("list literal element %d must be a non-empty string", i)
			}
			values[i] = str
		}
		return values, nil
	}

	return nil, errors.New("right-hand side must be a literal or a list literal")
}

func validateLiteral(kind ValueKind, op Op, value any) error {
	switch kind {
	case KindString:
		if op == OpIN {
			list, ok := value.([]string)
			if !ok {
				return fmt.Errorf("expected list of %s literals", kind)
			}
			if len(list) == 0 {
				return errors.New("list literal must not be empty")
			}
			return nil
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}
