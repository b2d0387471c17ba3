package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/grpc"

	"github.com/searchads/searchads/internal/codec"
	"github.com/searchads/searchads/internal/value"
)

// Stream is a lazily consumed server-streaming response. It is a
// single-pass sequence: drain it with Recv until io.EOF, or Close to
// abandon it. Messages arrive in the order the remote peer sent them.
type Stream struct {
	cs     grpc.ClientStream
	cancel context.CancelFunc
	logger *slog.Logger
	method string
	count  int
}

// OpenServerStream issues a server-streaming call and returns the lazy
// stream handle. The request is sent before this returns.
func (c *Client) OpenServerStream(ctx context.Context, method *desc.MethodDescriptor, req value.Value) (*Stream, error) {
	if err := rejectClientStreaming(method); err != nil {
		return nil, err
	}
	if !method.IsServerStreaming() {
		return nil, fmt.Errorf("%s is not server streaming", method.GetFullyQualifiedName())
	}

	methodName := method.GetFullyQualifiedName()
	cdc := codec.FromMethod(method)
	ctx, cancel := c.callContext(ctx)

	c.logger.Debug("invoking server streaming RPC", slog.String("method", methodName))

	sd := &grpc.StreamDesc{
		StreamName:    method.GetName(),
		ServerStreams: true,
	}
	cs, err := c.conn.NewStream(ctx, sd, methodPath(method), grpc.ForceCodec(cdc))
	if err != nil {
		cancel()
		c.logger.Error("failed to open server stream",
			slog.String("method", methodName),
			slog.Any("error", err),
		)
		return nil, err
	}
	if err := cs.SendMsg(&req); err != nil {
		cancel()
		return nil, err
	}
	if err := cs.CloseSend(); err != nil {
		cancel()
		return nil, err
	}

	return &Stream{
		cs:     cs,
		cancel: cancel,
		logger: c.logger,
		method: methodName,
	}, nil
}

// ServerStream issues a server-streaming call and collects every message
// into memory before returning, in arrival order.
func (c *Client) ServerStream(ctx context.Context, method *desc.MethodDescriptor, req value.Value) ([]value.Value, error) {
	stream, err := c.OpenServerStream(ctx, method, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var out []value.Value
	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
}

// Recv returns the next message, or io.EOF when the stream completes
// normally. Any error ends the stream; no partial message follows one.
func (s *Stream) Recv() (value.Value, error) {
	var v value.Value
	if err := s.cs.RecvMsg(&v); err != nil {
		s.cancel()
		if err == io.EOF {
			s.logger.Debug("server stream completed",
				slog.String("method", s.method),
				slog.Int("messages", s.count),
			)
			return value.Value{}, io.EOF
		}
		s.logger.Error("stream receive error",
			slog.String("method", s.method),
			slog.Int("messages", s.count),
			slog.Any("error", err),
		)
		return value.Value{}, err
	}
	s.count++
	return v, nil
}

// Close abandons the stream. Safe to call after exhaustion.
func (s *Stream) Close() {
	s.cancel()
}
