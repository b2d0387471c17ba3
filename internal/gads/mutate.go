package gads

import (
	"context"
	"fmt"

	"github.com/searchads/searchads/internal/client"
	"github.com/searchads/searchads/internal/registry"
	"github.com/searchads/searchads/internal/value"
)

// MutateArgs describe one batch mutate. Body, when set, passes through
// unmodified and every other shaping input is ignored.
type MutateArgs struct {
	CustomerID          string
	Ops                 *value.Value // raw mutateOperations array
	Body                *value.Value // full pre-built request body
	PartialFailure      bool
	ValidateOnly        bool
	ResponseContentType string
}

// RunMutate executes GoogleAdsService.Mutate. Partial-failure details in
// a successful response are opaque pass-through data; callers decide
// what to make of them.
func RunMutate(ctx context.Context, c *client.Client, pool *registry.Pool, args MutateArgs) (value.Value, error) {
	method, err := pool.FindMethod(googleAdsService, mutateMethod)
	if err != nil {
		return value.Value{}, err
	}

	var body value.Value
	if args.Body != nil {
		body = *args.Body
	} else {
		body, err = BuildMutateRequest(args)
		if err != nil {
			return value.Value{}, err
		}
	}

	return c.Unary(ctx, method, body)
}

// BuildMutateRequest assembles the batch-mutate shape. The operations
// array must be supplied unless a full body is.
func BuildMutateRequest(args MutateArgs) (value.Value, error) {
	if args.Ops == nil {
		return value.Value{}, fmt.Errorf("mutate operations required unless a full request body is provided")
	}

	fields := []value.Field{
		{Name: "customerId", Value: value.String(args.CustomerID)},
		{Name: "mutateOperations", Value: *args.Ops},
	}
	if args.PartialFailure {
		fields = append(fields, value.Field{Name: "partialFailure", Value: value.Bool(true)})
	}
	if args.ValidateOnly {
		fields = append(fields, value.Field{Name: "validateOnly", Value: value.Bool(true)})
	}
	if args.ResponseContentType != "" {
		fields = append(fields, value.Field{Name: "responseContentType", Value: value.String(args.ResponseContentType)})
	}
	return value.Object(fields...), nil
}
