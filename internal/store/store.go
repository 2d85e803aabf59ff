package store

import "context"

// Filter is an equality predicate on a single column.
type Filter struct {
	Column string
	Value  string
}

// Eq is shorthand for building a Filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

type Order struct {
	Column    string
	Ascending bool
}

type Query struct {
	Columns string // defaults to "*"
	Filters []Filter
	Order   *Order
}

// Store is the subset of the remote database service the repositories rely on.
// Every method is a single round trip; nothing here retries.
type Store interface {
	// Insert writes rows (a struct, a map or a slice of either) and returns the
	// inserted representation as a JSON array.
	Insert(ctx context.Context, table string, rows interface{}) ([]byte, error)
	// Select returns the matching rows as a JSON array.
	Select(ctx context.Context, table string, q Query) ([]byte, error)
	// Update applies values to every row matching all filters and returns the
	// updated rows as a JSON array. Zero matching rows is not an error.
	Update(ctx context.Context, table string, values map[string]interface{}, filters []Filter) ([]byte, error)
	// Rpc invokes a stored procedure and returns the raw response body.
	Rpc(ctx context.Context, name string, params interface{}) (string, error)
}

type tokenKey struct{}

// WithAccessToken attaches the caller's access token so the store can issue
// requests under that user's row-level security policies.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func AccessToken(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}
