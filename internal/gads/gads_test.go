package gads

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchads/searchads/internal/value"
)

func marshal(t *testing.T, v value.Value) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestBuildSearchRequest_StreamVariant(t *testing.T) {
	pageSize := int64(100)
	pageToken := "tok"

	req := BuildSearchRequest(SearchArgs{
		CustomerID:              "1234567890",
		Query:                   "SELECT campaign.id FROM campaign",
		PageSize:                &pageSize,
		PageToken:               &pageToken,
		ReturnTotalResultsCount: true,
	})

	// Paging and total-count fields apply only to the unary variant.
	assert.Equal(t,
		`{"customerId":"1234567890","query":"SELECT campaign.id FROM campaign"}`,
		marshal(t, req))
}

func TestBuildSearchRequest_SearchVariant(t *testing.T) {
	pageSize := int64(50)
	pageToken := "next"
	srs := "SUMMARY_ROW_WITH_RESULTS"

	req := BuildSearchRequest(SearchArgs{
		CustomerID:              "42",
		Query:                   "q",
		UseSearch:               true,
		PageSize:                &pageSize,
		PageToken:               &pageToken,
		ValidateOnly:            true,
		SummaryRowSetting:       &srs,
		ReturnTotalResultsCount: true,
	})

	assert.Equal(t,
		`{"customerId":"42","query":"q","pageSize":50,"pageToken":"next",`+
			`"validateOnly":true,"summaryRowSetting":"SUMMARY_ROW_WITH_RESULTS",`+
			`"returnTotalResultsCount":true}`,
		marshal(t, req))
}

func TestBuildSearchRequest_OmitsUnsetOptionals(t *testing.T) {
	req := BuildSearchRequest(SearchArgs{CustomerID: "1", Query: "q", UseSearch: true})
	assert.Equal(t, `{"customerId":"1","query":"q"}`, marshal(t, req))
}

func TestBuildMutateRequest(t *testing.T) {
	ops := value.List(value.Object(
		value.Field{Name: "campaignOperation", Value: value.Object()},
	))

	req, err := BuildMutateRequest(MutateArgs{
		CustomerID:          "42",
		Ops:                 &ops,
		PartialFailure:      true,
		ValidateOnly:        true,
		ResponseContentType: "MUTABLE_RESOURCE",
	})
	require.NoError(t, err)

	assert.Equal(t,
		`{"customerId":"42","mutateOperations":[{"campaignOperation":{}}],`+
			`"partialFailure":true,"validateOnly":true,"responseContentType":"MUTABLE_RESOURCE"}`,
		marshal(t, req))
}

func TestBuildMutateRequest_Minimal(t *testing.T) {
	ops := value.List()
	req, err := BuildMutateRequest(MutateArgs{CustomerID: "7", Ops: &ops})
	require.NoError(t, err)
	assert.Equal(t, `{"customerId":"7","mutateOperations":[]}`, marshal(t, req))
}

func TestBuildMutateRequest_RequiresOps(t *testing.T) {
	_, err := BuildMutateRequest(MutateArgs{CustomerID: "7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operations required")
}

func TestNarrowResults(t *testing.T) {
	resp := value.Object(
		value.Field{Name: "results", Value: value.List(value.String("a"))},
		value.Field{Name: "fieldMask", Value: value.String("campaign.id")},
	)
	narrowed := narrowResults(resp)
	require.Len(t, narrowed.Items(), 1)

	// Missing results narrows to an empty list, not null.
	empty := narrowResults(value.Object())
	assert.Equal(t, value.KindList, empty.Kind())
	assert.Empty(t, empty.Items())
}

func TestResultRows(t *testing.T) {
	chunk := value.Object(
		value.Field{Name: "results", Value: value.List(value.Int(1), value.Int(2))},
	)
	assert.Len(t, resultRows(chunk), 2)
	assert.Nil(t, resultRows(value.Object()))
}
