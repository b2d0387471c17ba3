package errors

import (
	"fmt"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// FormatRPC renders an error for the terminal. For gRPC failures the
// remote status code and message are reported verbatim, followed by any
// structured detail payloads the server attached. Other errors render
// as-is.
func FormatRPC(err error) string {
	if err == nil {
		return ""
	}
	st, ok := status.FromError(err)
	if !ok {
		return err.Error()
	}
	out := fmt.Sprintf("rpc error %s: %s", st.Code(), st.Message())
	if extra := formatStatusDetails(st); extra != "" {
		out += "\n" + extra
	}
	return out
}

// formatStatusDetails extracts rich error details from a gRPC status.
func formatStatusDetails(st *status.Status) string {
	details := st.Details()
	if len(details) == 0 {
		return ""
	}

	var sections []string
	for _, detail := range details {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			var lines []string
			lines = append(lines, fmt.Sprintf("error info: %s", d.GetReason()))
			if d.GetDomain() != "" {
				lines = append(lines, fmt.Sprintf("  domain: %s", d.GetDomain()))
			}
			for k, v := range d.GetMetadata() {
				lines = append(lines, fmt.Sprintf("  %s: %s", k, v))
			}
			sections = append(sections, strings.Join(lines, "\n"))

		case *errdetails.BadRequest:
			if fvs := d.GetFieldViolations(); len(fvs) > 0 {
				lines := []string{"field violations:"}
				for _, fv := range fvs {
					lines = append(lines, fmt.Sprintf("  %s: %s", fv.GetField(), fv.GetDescription()))
				}
				sections = append(sections, strings.Join(lines, "\n"))
			}

		case *errdetails.QuotaFailure:
			if vs := d.GetViolations(); len(vs) > 0 {
				lines := []string{"quota failures:"}
				for _, v := range vs {
					lines = append(lines, fmt.Sprintf("  %s: %s", v.GetSubject(), v.GetDescription()))
				}
				sections = append(sections, strings.Join(lines, "\n"))
			}

		case *errdetails.RequestInfo:
			sections = append(sections, fmt.Sprintf("request id: %s", d.GetRequestId()))

		case *errdetails.Help:
			for _, link := range d.GetLinks() {
				sections = append(sections, fmt.Sprintf("help: %s (%s)", link.GetDescription(), link.GetUrl()))
			}

		default:
			sections = append(sections, fmt.Sprintf("detail: %v", detail))
		}
	}
	return strings.Join(sections, "\n")
}
