package gads

import (
	"context"
	"fmt"
	"io"

	"github.com/searchads/searchads/internal/client"
	apperrors "github.com/searchads/searchads/internal/errors"
	"github.com/searchads/searchads/internal/registry"
	"github.com/searchads/searchads/internal/value"
)

// RawArgs describe a raw call: any visible method with a caller-supplied
// body, returned without narrowing.
type RawArgs struct {
	Service string
	Method  string
	Body    value.Value
	JSONL   bool
}

// RunRaw resolves the method and passes the body straight through.
// Client-streaming methods are rejected before any network activity.
func RunRaw(ctx context.Context, c *client.Client, pool *registry.Pool, args RawArgs, emit Emitter) (Output, error) {
	method, err := pool.FindMethod(args.Service, args.Method)
	if err != nil {
		return Output{}, err
	}
	if method.IsClientStreaming() {
		return Output{}, fmt.Errorf("%s: %w", method.GetFullyQualifiedName(), apperrors.ErrClientStreaming)
	}

	if method.IsServerStreaming() {
		if args.JSONL {
			stream, err := c.OpenServerStream(ctx, method, args.Body)
			if err != nil {
				return Output{}, err
			}
			defer stream.Close()
			for {
				msg, err := stream.Recv()
				if err == io.EOF {
					return Output{Emitted: true}, nil
				}
				if err != nil {
					return Output{}, err
				}
				if err := emit(msg); err != nil {
					return Output{}, err
				}
			}
		}
		msgs, err := c.ServerStream(ctx, method, args.Body)
		if err != nil {
			return Output{}, err
		}
		return Output{Value: value.List(msgs...)}, nil
	}

	resp, err := c.Unary(ctx, method, args.Body)
	if err != nil {
		return Output{}, err
	}
	return Output{Value: resp}, nil
}
