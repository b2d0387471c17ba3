// Package registrytest builds small in-memory descriptor sets for tests.
// The fixture mirrors the real API surface in miniature: one visible
// service with unary, server-streaming, and client-streaming methods,
// plus a service outside the visible namespace.
package registrytest

import (
	"strings"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/searchads/searchads/internal/registry"
)

// Fixture identifiers shared by tests across packages.
const (
	ServiceFQN          = "google.ads.googleads.v9.services.AccountsService"
	GoogleAdsServiceFQN = "google.ads.googleads.v9.services.GoogleAdsService"
	RequestFQN          = "google.ads.googleads.v9.services.SearchAccountsRequest"
	ResponseFQN         = "google.ads.googleads.v9.services.SearchAccountsResponse"
)

// FileSet returns a fresh descriptor set for the fixture services.
func FileSet() *descriptorpb.FileDescriptorSet {
	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{
			accountsFile(),
			helperFile(),
		},
	}
}

// Pool builds a registry pool from the fixture set, failing the test on
// error.
func Pool(t *testing.T) *registry.Pool {
	t.Helper()
	pool, err := registry.NewPool(FileSet())
	if err != nil {
		t.Fatalf("build fixture pool: %v", err)
	}
	return pool
}

func accountsFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("google/ads/googleads/v9/services/accounts_service.proto"),
		Package: proto.String("google.ads.googleads.v9.services"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("SearchAccountsRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("customer_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("query", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("page_size", 3, descriptorpb.FieldDescriptorProto_TYPE_INT32),
					scalarField("validate_only", 4, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
				},
			},
			{
				Name: proto.String("SearchAccountsResponse"),
				Field: []*descriptorpb.FieldDescriptorProto{
					repeatedMessageField("results", 1, ".google.ads.googleads.v9.services.AccountRow"),
					scalarField("next_page_token", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("AccountRow"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("id", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
					scalarField("active", 3, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
					enumField("status", 4, ".google.ads.googleads.v9.services.AccountStatusEnum.AccountStatus"),
					repeatedScalarField("labels", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					messageField("details", 6, ".google.ads.googleads.v9.services.AccountDetails"),
				},
			},
			{
				Name: proto.String("AccountDetails"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("region", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("AccountStatusEnum"),
				EnumType: []*descriptorpb.EnumDescriptorProto{
					{
						Name: proto.String("AccountStatus"),
						Value: []*descriptorpb.EnumValueDescriptorProto{
							enumValue("UNSPECIFIED", 0),
							enumValue("ENABLED", 1),
							enumValue("REMOVED", 2),
						},
					},
				},
			},
			{
				Name: proto.String("MutateAccountsRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("customer_id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					repeatedScalarField("mutate_operations", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("partial_failure", 3, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
					scalarField("validate_only", 4, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
				},
			},
			{
				Name: proto.String("MutateAccountsResponse"),
				Field: []*descriptorpb.FieldDescriptorProto{
					repeatedScalarField("resource_names", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("UploadChunk"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("data", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("UploadSummary"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("count", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("AccountsService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("Search"),
						InputType:  proto.String(".google.ads.googleads.v9.services.SearchAccountsRequest"),
						OutputType: proto.String(".google.ads.googleads.v9.services.SearchAccountsResponse"),
					},
					{
						Name:            proto.String("SearchStream"),
						InputType:       proto.String(".google.ads.googleads.v9.services.SearchAccountsRequest"),
						OutputType:      proto.String(".google.ads.googleads.v9.services.SearchAccountsResponse"),
						ServerStreaming: proto.Bool(true),
					},
					{
						Name:       proto.String("Mutate"),
						InputType:  proto.String(".google.ads.googleads.v9.services.MutateAccountsRequest"),
						OutputType: proto.String(".google.ads.googleads.v9.services.MutateAccountsResponse"),
					},
					{
						Name:            proto.String("UploadStuff"),
						InputType:       proto.String(".google.ads.googleads.v9.services.UploadChunk"),
						OutputType:      proto.String(".google.ads.googleads.v9.services.UploadSummary"),
						ClientStreaming: proto.Bool(true),
					},
				},
			},
			// Mirrors the production service name so the shaped-call paths
			// resolve against the fixture pool too.
			{
				Name: proto.String("GoogleAdsService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("Search"),
						InputType:  proto.String(".google.ads.googleads.v9.services.SearchAccountsRequest"),
						OutputType: proto.String(".google.ads.googleads.v9.services.SearchAccountsResponse"),
					},
					{
						Name:            proto.String("SearchStream"),
						InputType:       proto.String(".google.ads.googleads.v9.services.SearchAccountsRequest"),
						OutputType:      proto.String(".google.ads.googleads.v9.services.SearchAccountsResponse"),
						ServerStreaming: proto.Bool(true),
					},
					{
						Name:       proto.String("Mutate"),
						InputType:  proto.String(".google.ads.googleads.v9.services.MutateAccountsRequest"),
						OutputType: proto.String(".google.ads.googleads.v9.services.MutateAccountsResponse"),
					},
				},
			},
		},
	}
}

// helperFile declares a service outside the visible namespace.
func helperFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("grpctest/helper.proto"),
		Package: proto.String("grpctest"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Ping"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("payload", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("HelperService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("Echo"),
						InputType:  proto.String(".grpctest.Ping"),
						OutputType: proto.String(".grpctest.Ping"),
					},
				},
			},
		},
	}
}

// jsonName derives the canonical proto3 JSON name the way protoc does:
// drop underscores, capitalize the letter that followed each one.
func jsonName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func scalarField(name string, number int32, t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     t.Enum(),
		JsonName: proto.String(jsonName(name)),
	}
}

func repeatedScalarField(name string, number int32, t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, t)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(typeName),
		JsonName: proto.String(jsonName(name)),
	}
}

func repeatedMessageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := messageField(name, number, typeName)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func enumField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum(),
		TypeName: proto.String(typeName),
		JsonName: proto.String(jsonName(name)),
	}
}

func enumValue(name string, number int32) *descriptorpb.EnumValueDescriptorProto {
	return &descriptorpb.EnumValueDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
	}
}
