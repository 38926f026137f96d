// Package bq wraps the BigQuery client: dry-run cost estimation, query
// execution into frame tables, and a file-backed result cache.
package bq

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/mwhsu/dataferry/internal/frame"
)

// ErrInvalidParam is returned when a query parameter flag is not in
// name=value form.
var ErrInvalidParam = errors.New("query parameter must be name=value")

// Param is a scalar query parameter.
type Param struct {
	Name  string
	Value string
}

// ParseParams parses name=value strings into query parameters.
func ParseParams(raw []string) ([]Param, error) {
	params := make([]Param, 0, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidParam, r)
		}
		params = append(params, Param{Name: name, Value: value})
	}
	return params, nil
}

// Client wraps a BigQuery connection.
type Client struct {
	bq *bigquery.Client
}

// NewClient creates a BigQuery client for the given project. credentialsFile
// is a service account JSON key; empty falls back to application default
// credentials.
func NewClient(ctx context.Context, project, credentialsFile string) (*Client, error) {
	if project == "" {
		return nil, errors.New("bigquery project is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", err)
	}
	return &Client{bq: client}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.bq.Close()
}

// Estimate dry-runs the query and returns the bytes it would process.
func (c *Client) Estimate(ctx context.Context, sql string) (int64, error) {
	q := c.bq.Query(sql)
	q.DryRun = true

	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("dry-running query: %w", err)
	}

	status := job.LastStatus()
	if status == nil || status.Statistics == nil {
		return 0, errors.New("dry run returned no statistics")
	}

	bytes := status.Statistics.TotalBytesProcessed
	zerolog.Ctx(ctx).Info().
		Int64("bytes", bytes).
		Str("estimate", FormatBytes(bytes)).
		Msg("estimated query size")
	return bytes, nil
}

// Run executes the query and collects the full result set into a table.
// Column names come from the result schema; cells are rendered through the
// shared cell-format rule.
func (c *Client) Run(ctx context.Context, sql string, params []Param) (*frame.Table, error) {
	q := c.bq.Query(sql)
	for _, p := range params {
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{Name: p.Name, Value: p.Value})
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}

	var rows [][]bigquery.Value
	for {
		var row []bigquery.Value
		nextErr := it.Next(&row)
		if nextErr == iterator.Done {
			break
		}
		if nextErr != nil {
			return nil, fmt.Errorf("reading query results: %w", nextErr)
		}
		rows = append(rows, row)
	}

	header := make([]string, 0, len(it.Schema))
	for _, field := range it.Schema {
		header = append(header, field.Name)
	}

	table, err := rowsToTable(header, rows)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int("rows", table.NumRows()).
		Int("cols", table.NumCols()).
		Msg("query complete")
	return table, nil
}

// LoadSQL reads a SQL script from disk.
func LoadSQL(path string) (string, error) {
	sql, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading SQL script %s: %w", path, err)
	}
	return string(sql), nil
}

// rowsToTable converts raw result rows into a frame table.
func rowsToTable(header []string, rows [][]bigquery.Value) (*frame.Table, error) {
	table, err := frame.New(header)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = frame.FormatCell(v)
		}
		if appendErr := table.AppendRow(cells); appendErr != nil {
			return nil, appendErr
		}
	}
	return table, nil
}
