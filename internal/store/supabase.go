package store

import (
	"context"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

type SupabaseStore struct {
	supabaseClient *supabase.Client
	url            string
	key            string
}

func NewSupabaseStore(supabaseClient *supabase.Client, url, key string) *SupabaseStore {
	return &SupabaseStore{
		supabaseClient: supabaseClient,
		url:            url,
		key:            key,
	}
}

// GetAuthenticatedClient returns a Supabase client with the given access token
func (s *SupabaseStore) GetAuthenticatedClient(accessToken string) (*supabase.Client, error) {
	if s.url == "" || s.key == "" {
		// without the URL and key a per-user client cannot be built
		return s.supabaseClient, nil
	}

	options := &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	}

	return supabase.NewClient(s.url, s.key, options)
}

func (s *SupabaseStore) client(ctx context.Context) (*supabase.Client, error) {
	token := AccessToken(ctx)
	if token == "" {
		return s.supabaseClient, nil
	}
	authClient, err := s.GetAuthenticatedClient(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}
	return authClient, nil
}

func (s *SupabaseStore) Insert(ctx context.Context, table string, rows interface{}) ([]byte, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(table).
		Insert(rows, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	return data, nil
}

func (s *SupabaseStore) Select(ctx context.Context, table string, q Query) ([]byte, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	columns := q.Columns
	if columns == "" {
		columns = "*"
	}

	builder := client.From(table).Select(columns, "", false)
	for _, f := range q.Filters {
		builder = builder.Eq(f.Column, f.Value)
	}
	if q.Order != nil {
		builder = builder.Order(q.Order.Column, &postgrest.OrderOpts{Ascending: q.Order.Ascending})
	}

	data, _, err := builder.Execute()
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	return data, nil
}

func (s *SupabaseStore) Update(ctx context.Context, table string, values map[string]interface{}, filters []Filter) ([]byte, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	builder := client.From(table).Update(values, "representation", "")
	for _, f := range filters {
		builder = builder.Eq(f.Column, f.Value)
	}

	data, _, err := builder.Execute()
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return data, nil
}

// Rpc calls a Postgres function through PostgREST. The underlying client
// reports only the response body, so a failed call surfaces as a body the
// caller cannot decode.
func (s *SupabaseStore) Rpc(ctx context.Context, name string, params interface{}) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}
	return client.Rpc(name, "", params), nil
}
