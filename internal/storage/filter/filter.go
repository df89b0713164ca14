// Package filter parses AIP-160 filter expressions for campaign listing
// and translates them to SQL WHERE fragments.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// CampaignFilter is a translated list filter: a SQL WHERE fragment with
// positional parameters. A zero value means no filtering.
type CampaignFilter struct {
	Clause string
	Params []any
}

// campaignDeclarations returns the field declarations for campaign filtering.
func campaignDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("active", filtering.TypeBool),
		filtering.DeclareIdent("school_wide", filtering.TypeBool),
		filtering.DeclareIdent("state_id", filtering.TypeString),
		filtering.DeclareIdent("district_id", filtering.TypeString),
		filtering.DeclareIdent("school_id", filtering.TypeString),
	)
}

// columnMapping maps filter field names to campaign table columns.
var columnMapping = map[string]string{
	"active":      "active",
	"school_wide": "school_wide",
	"state_id":    "state_id",
	"district_id": "district_id",
	"school_id":   "school_id",
}

// ParseCampaignFilter parses an AIP-160 filter expression and returns a
// SQL condition. Returns a zero condition for an empty filter string.
func ParseCampaignFilter(filterStr string) (CampaignFilter, error) {
	if strings.TrimSpace(filterStr) == "" {
		return CampaignFilter{}, nil
	}

	decls, err := campaignDeclarations()
	if err != nil {
		return CampaignFilter{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return CampaignFilter{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(parsed.CheckedExpr.Expr)
}

func translateExpr(e *expr.Expr) (CampaignFilter, error) {
	if e == nil {
		return CampaignFilter{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	case *expr.Expr_IdentExpr:
		// A bare boolean field, e.g. "active".
		column, ok := columnMapping[kind.IdentExpr.Name]
		if !ok {
			return CampaignFilter{}, fmt.Errorf("unknown field: %s", kind.IdentExpr.Name)
		}
		return CampaignFilter{
			Clause: fmt.Sprintf("%s = ?", column),
			Params: []any{true},
		}, nil
	default:
		return CampaignFilter{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (CampaignFilter, error) {
	switch call.Function {
	case "_&&_", "AND":
		return translateLogical(call.Args, "AND")
	case "_||_", "OR":
		return translateLogical(call.Args, "OR")
	case "_==_", "=":
		return translateComparison(call.Args, "=")
	case "_!=_", "!=":
		return translateComparison(call.Args, "!=")
	case "NOT", "_!_":
		return translateNot(call.Args)
	default:
		return CampaignFilter{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(args []*expr.Expr, op string) (CampaignFilter, error) {
	if len(args) != 2 {
		return CampaignFilter{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := translateExpr(args[0])
	if err != nil {
		return CampaignFilter{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return CampaignFilter{}, err
	}

	return CampaignFilter{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateNot(args []*expr.Expr) (CampaignFilter, error) {
	if len(args) != 1 {
		return CampaignFilter{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return CampaignFilter{}, err
	}
	return CampaignFilter{
		Clause: fmt.Sprintf("NOT (%s)", inner.Clause),
		Params: inner.Params,
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (CampaignFilter, error) {
	if len(args) != 2 {
		return CampaignFilter{}, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return CampaignFilter{}, err
	}
	column, ok := columnMapping[field]
	if !ok {
		return CampaignFilter{}, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return CampaignFilter{}, err
	}

	return CampaignFilter{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
