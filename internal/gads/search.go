// Package gads assembles the canonical Google Ads request shapes from
// already-validated scalar inputs and drives them through the client.
// Request and response payloads stay opaque: the only interpretation is
// optionally narrowing the "results" envelope when raw output is not
// requested.
package gads

import (
	"context"
	"io"

	"github.com/searchads/searchads/internal/client"
	"github.com/searchads/searchads/internal/registry"
	"github.com/searchads/searchads/internal/value"
)

// Service and method names resolved through the registry.
const (
	googleAdsService   = "google-ads-service"
	searchMethod       = "search"
	searchStreamMethod = "search-stream"
	mutateMethod       = "mutate"
)

// Emitter receives rows one at a time in line mode.
type Emitter func(value.Value) error

// Output is the result of a shaped call. When Emitted is true the rows
// were already written through the emitter and Value is unset.
type Output struct {
	Value   value.Value
	Emitted bool
}

// SearchArgs describe one GAQL search. Nil pointer fields are omitted
// from the request.
type SearchArgs struct {
	CustomerID              string
	Query                   string
	UseSearch               bool // unary Search instead of SearchStream
	PageSize                *int64
	PageToken               *string
	ValidateOnly            bool
	SummaryRowSetting       *string
	ReturnTotalResultsCount bool
	Raw                     bool // return payloads without narrowing
	JSONL                   bool // emit rows as they arrive
}

// RunSearch executes a GAQL search through GoogleAdsService. The unary
// Search variant runs when UseSearch is set; otherwise SearchStream.
func RunSearch(ctx context.Context, c *client.Client, pool *registry.Pool, args SearchArgs, emit Emitter) (Output, error) {
	request := BuildSearchRequest(args)

	if args.UseSearch {
		method, err := pool.FindMethod(googleAdsService, searchMethod)
		if err != nil {
			return Output{}, err
		}
		resp, err := c.Unary(ctx, method, request)
		if err != nil {
			return Output{}, err
		}
		if args.Raw {
			return Output{Value: resp}, nil
		}
		return Output{Value: narrowResults(resp)}, nil
	}

	method, err := pool.FindMethod(googleAdsService, searchStreamMethod)
	if err != nil {
		return Output{}, err
	}

	if args.JSONL {
		stream, err := c.OpenServerStream(ctx, method, request)
		if err != nil {
			return Output{}, err
		}
		defer stream.Close()
		for {
			msg, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				return Output{}, err
			}
			if args.Raw {
				if err := emit(msg); err != nil {
					return Output{}, err
				}
				continue
			}
			for _, row := range resultRows(msg) {
				if err := emit(row); err != nil {
					return Output{}, err
				}
			}
		}
		return Output{Emitted: true}, nil
	}

	chunks, err := c.ServerStream(ctx, method, request)
	if err != nil {
		return Output{}, err
	}
	if args.Raw {
		return Output{Value: value.List(chunks...)}, nil
	}
	var rows []value.Value
	for _, chunk := range chunks {
		rows = append(rows, resultRows(chunk)...)
	}
	return Output{Value: value.List(rows...)}, nil
}

// BuildSearchRequest assembles the query-search shape. Paging fields and
// the total-results-count flag apply only to the unary Search variant.
func BuildSearchRequest(args SearchArgs) value.Value {
	fields := []value.Field{
		{Name: "customerId", Value: value.String(args.CustomerID)},
		{Name: "query", Value: value.String(args.Query)},
	}
	if args.UseSearch {
		if args.PageSize != nil {
			fields = append(fields, value.Field{Name: "pageSize", Value: value.Int(*args.PageSize)})
		}
		if args.PageToken != nil {
			fields = append(fields, value.Field{Name: "pageToken", Value: value.String(*args.PageToken)})
		}
	}
	if args.ValidateOnly {
		fields = append(fields, value.Field{Name: "validateOnly", Value: value.Bool(true)})
	}
	if args.SummaryRowSetting != nil {
		fields = append(fields, value.Field{Name: "summaryRowSetting", Value: value.String(*args.SummaryRowSetting)})
	}
	if args.UseSearch && args.ReturnTotalResultsCount {
		fields = append(fields, value.Field{Name: "returnTotalResultsCount", Value: value.Bool(true)})
	}
	return value.Object(fields...)
}

// narrowResults extracts the "results" list from a response envelope,
// defaulting to an empty list when absent.
func narrowResults(resp value.Value) value.Value {
	if results, ok := resp.Get("results"); ok {
		return results
	}
	return value.List()
}

func resultRows(resp value.Value) []value.Value {
	if results, ok := resp.Get("results"); ok {
		return results.Items()
	}
	return nil
}
