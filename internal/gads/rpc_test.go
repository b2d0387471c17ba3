package gads

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/searchads/searchads/internal/client"
	apperrors "github.com/searchads/searchads/internal/errors"
	"github.com/searchads/searchads/internal/logging"
	"github.com/searchads/searchads/internal/registry"
	"github.com/searchads/searchads/internal/registry/registrytest"
	"github.com/searchads/searchads/internal/value"
)

// Package-level test infrastructure: an in-process server implementing
// the fixture GoogleAdsService so the shaped calls run over a real
// connection. Frames cross the server side as opaque bytes.
var (
	testPool   *registry.Pool
	testClient *client.Client
	testServer *grpc.Server

	gadsSearchReqDesc  *desc.MessageDescriptor
	gadsSearchRespDesc *desc.MessageDescriptor
	gadsRowDesc        *desc.MessageDescriptor
	gadsMutateReqDesc  *desc.MessageDescriptor
	gadsMutateRespDesc *desc.MessageDescriptor
)

type gadsRawCodec struct{}

func (gadsRawCodec) Marshal(v any) ([]byte, error) {
	raw, ok := v.(*[]byte)
	if !ok {
		return nil, fmt.Errorf("gadsRawCodec: unsupported message type %T", v)
	}
	return *raw, nil
}

func (gadsRawCodec) Unmarshal(data []byte, v any) error {
	raw, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("gadsRawCodec: unsupported message type %T", v)
	}
	*raw = append([]byte(nil), data...)
	return nil
}

func (gadsRawCodec) Name() string { return "gads-raw-passthrough" }

// gadsSearchResponse builds a response whose rows are named after the
// query so tests can tell which server method produced them.
func gadsSearchResponse(prefix string, count int, pageToken string) ([]byte, error) {
	resp := dynamic.NewMessage(gadsSearchRespDesc)
	for i := 0; i < count; i++ {
		row := dynamic.NewMessage(gadsRowDesc)
		row.SetFieldByName("name", fmt.Sprintf("%s/%d", prefix, i))
		resp.AddRepeatedFieldByName("results", row)
	}
	if pageToken != "" {
		resp.SetFieldByName("next_page_token", pageToken)
	}
	return resp.Marshal()
}

func gadsUnarySearchHandler(_ any, _ context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	var raw []byte
	if err := dec(&raw); err != nil {
		return nil, err
	}
	req := dynamic.NewMessage(gadsSearchReqDesc)
	if err := req.Unmarshal(raw); err != nil {
		return nil, err
	}
	query, _ := req.GetFieldByName("query").(string)
	out, err := gadsSearchResponse(query+"/u", 3, "tok")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func gadsSearchStreamHandler(_ any, stream grpc.ServerStream) error {
	var raw []byte
	if err := stream.RecvMsg(&raw); err != nil {
		return err
	}
	req := dynamic.NewMessage(gadsSearchReqDesc)
	if err := req.Unmarshal(raw); err != nil {
		return err
	}
	query, _ := req.GetFieldByName("query").(string)
	for c := 0; c < 3; c++ {
		chunk, err := gadsSearchResponse(fmt.Sprintf("%s/s%d", query, c), 2, "")
		if err != nil {
			return err
		}
		if err := stream.SendMsg(&chunk); err != nil {
			return err
		}
	}
	return nil
}

func gadsMutateHandler(_ any, _ context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	var raw []byte
	if err := dec(&raw); err != nil {
		return nil, err
	}
	req := dynamic.NewMessage(gadsMutateReqDesc)
	if err := req.Unmarshal(raw); err != nil {
		return nil, err
	}
	resp := dynamic.NewMessage(gadsMutateRespDesc)
	ops, _ := req.GetFieldByName("mutate_operations").([]any)
	for _, op := range ops {
		resp.AddRepeatedFieldByName("resource_names", fmt.Sprintf("done/%v", op))
	}
	out, err := resp.Marshal()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var gadsServiceDesc = grpc.ServiceDesc{
	ServiceName: registrytest.GoogleAdsServiceFQN,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: gadsUnarySearchHandler},
		{MethodName: "Mutate", Handler: gadsMutateHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "SearchStream", Handler: gadsSearchStreamHandler, ServerStreams: true},
	},
	Metadata: "google/ads/googleads/v9/services/accounts_service.proto",
}

func TestMain(m *testing.M) {
	var err error
	testPool, err = registry.NewPool(registrytest.FileSet())
	if err != nil {
		fmt.Fprintf(os.Stderr, "build fixture pool: %v\n", err)
		os.Exit(1)
	}

	searchMD, err := testPool.FindMethod("google-ads-service", "search")
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve search: %v\n", err)
		os.Exit(1)
	}
	mutateMD, err := testPool.FindMethod("google-ads-service", "mutate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve mutate: %v\n", err)
		os.Exit(1)
	}
	gadsSearchReqDesc = searchMD.GetInputType()
	gadsSearchRespDesc = searchMD.GetOutputType()
	gadsRowDesc = gadsSearchRespDesc.FindFieldByName("results").GetMessageType()
	gadsMutateReqDesc = mutateMD.GetInputType()
	gadsMutateRespDesc = mutateMD.GetOutputType()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}

	testServer = grpc.NewServer(grpc.ForceServerCodec(gadsRawCodec{}))
	testServer.RegisterService(&gadsServiceDesc, &struct{}{})
	go func() {
		if err := testServer.Serve(lis); err != nil {
			fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		}
	}()

	testClient, err = client.Connect(context.Background(), client.Options{
		Endpoint:       "http://" + lis.Addr().String(),
		DeveloperToken: "dev-token",
		AccessToken:    "tok",
	}, logging.NewNopLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testClient.Close()
	testServer.Stop()
	os.Exit(code)
}

func rowNames(t *testing.T, rows []value.Value) []string {
	t.Helper()
	var names []string
	for _, row := range rows {
		name, ok := row.Get("name")
		require.True(t, ok, "row has no name: %v", row)
		s, _ := name.AsString()
		names = append(names, s)
	}
	return names
}

func noEmit(value.Value) error { return fmt.Errorf("emitter must not be called") }

func TestRunSearch_StreamDefaultFlattensRows(t *testing.T) {
	out, err := RunSearch(context.Background(), testClient, testPool,
		SearchArgs{CustomerID: "1", Query: "q"}, noEmit)
	require.NoError(t, err)
	require.False(t, out.Emitted)

	assert.Equal(t,
		[]string{"q/s0/0", "q/s0/1", "q/s1/0", "q/s1/1", "q/s2/0", "q/s2/1"},
		rowNames(t, out.Value.Items()))
}

func TestRunSearch_StreamRawKeepsChunks(t *testing.T) {
	out, err := RunSearch(context.Background(), testClient, testPool,
		SearchArgs{CustomerID: "1", Query: "q", Raw: true}, noEmit)
	require.NoError(t, err)

	chunks := out.Value.Items()
	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		results, ok := chunk.Get("results")
		require.True(t, ok, "raw chunk must keep its envelope: %v", chunk)
		assert.Len(t, results.Items(), 2)
	}
}

func TestRunSearch_StreamJSONLEmitsRows(t *testing.T) {
	var emitted []value.Value
	out, err := RunSearch(context.Background(), testClient, testPool,
		SearchArgs{CustomerID: "1", Query: "q", JSONL: true},
		func(v value.Value) error {
			emitted = append(emitted, v)
			return nil
		})
	require.NoError(t, err)
	assert.True(t, out.Emitted)
	assert.True(t, out.Value.IsNull())

	assert.Equal(t,
		[]string{"q/s0/0", "q/s0/1", "q/s1/0", "q/s1/1", "q/s2/0", "q/s2/1"},
		rowNames(t, emitted))
}

func TestRunSearch_UseSearchRunsUnaryVariant(t *testing.T) {
	pageSize := int64(10)
	out, err := RunSearch(context.Background(), testClient, testPool,
		SearchArgs{CustomerID: "1", Query: "q", UseSearch: true, PageSize: &pageSize}, noEmit)
	require.NoError(t, err)

	assert.Equal(t, []string{"q/u/0", "q/u/1", "q/u/2"}, rowNames(t, out.Value.Items()))
}

func TestRunSearch_UseSearchRawKeepsEnvelope(t *testing.T) {
	out, err := RunSearch(context.Background(), testClient, testPool,
		SearchArgs{CustomerID: "1", Query: "q", UseSearch: true, Raw: true}, noEmit)
	require.NoError(t, err)

	tok, ok := out.Value.Get("nextPageToken")
	require.True(t, ok, "raw unary response must keep its envelope: %v", out.Value)
	s, _ := tok.AsString()
	assert.Equal(t, "tok", s)
}

func TestRunMutate_Ops(t *testing.T) {
	ops := value.List(value.String("op1"), value.String("op2"))
	resp, err := RunMutate(context.Background(), testClient, testPool,
		MutateArgs{CustomerID: "42", Ops: &ops})
	require.NoError(t, err)

	names, ok := resp.Get("resourceNames")
	require.True(t, ok, "mutate response missing resourceNames: %v", resp)
	require.Len(t, names.Items(), 2)
	first, _ := names.Items()[0].AsString()
	assert.Equal(t, "done/op1", first)
}

func TestRunMutate_BodyPassthrough(t *testing.T) {
	body := value.Object(
		value.Field{Name: "customerId", Value: value.String("42")},
		value.Field{Name: "mutateOperations", Value: value.List(value.String("raw-op"))},
	)
	resp, err := RunMutate(context.Background(), testClient, testPool,
		MutateArgs{CustomerID: "ignored-when-body-set", Body: &body})
	require.NoError(t, err)

	names, ok := resp.Get("resourceNames")
	require.True(t, ok)
	require.Len(t, names.Items(), 1)
	first, _ := names.Items()[0].AsString()
	assert.Equal(t, "done/raw-op", first)
}

func TestRunRaw_Unary(t *testing.T) {
	body := value.Object(
		value.Field{Name: "customerId", Value: value.String("1")},
		value.Field{Name: "query", Value: value.String("raw")},
	)
	out, err := RunRaw(context.Background(), testClient, testPool,
		RawArgs{Service: "google-ads-service", Method: "search", Body: body}, noEmit)
	require.NoError(t, err)

	results, ok := out.Value.Get("results")
	require.True(t, ok)
	assert.Len(t, results.Items(), 3)
}

func TestRunRaw_StreamJSONL(t *testing.T) {
	body := value.Object(value.Field{Name: "query", Value: value.String("raw")})

	var emitted []value.Value
	out, err := RunRaw(context.Background(), testClient, testPool,
		RawArgs{Service: "google-ads-service", Method: "search-stream", Body: body, JSONL: true},
		func(v value.Value) error {
			emitted = append(emitted, v)
			return nil
		})
	require.NoError(t, err)
	assert.True(t, out.Emitted)
	require.Len(t, emitted, 3)
	_, ok := emitted[0].Get("results")
	assert.True(t, ok, "raw jsonl emits whole chunks: %v", emitted[0])
}

func TestRunRaw_RejectsClientStreaming(t *testing.T) {
	_, err := RunRaw(context.Background(), testClient, testPool,
		RawArgs{Service: "accounts-service", Method: "upload-stuff", Body: value.Object()}, noEmit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrClientStreaming))
}

func TestRunSearch_UnknownMethodFromPool(t *testing.T) {
	empty, err := registry.NewPool(&descriptorpb.FileDescriptorSet{})
	require.NoError(t, err)

	_, err = RunSearch(context.Background(), testClient, empty,
		SearchArgs{CustomerID: "1", Query: "q"}, noEmit)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
