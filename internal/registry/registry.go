// Package registry loads the embedded Google Ads descriptor set into an
// immutable pool of service, method, and message descriptors, and
// resolves service/method names against it at runtime. The pool is built
// once at process start and shared read-only by every call site.
package registry

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	apperrors "github.com/searchads/searchads/internal/errors"
)

// The compiled descriptor set is bundled at build time; see
// tools/fetch_protos.py for regenerating it from googleapis.
//
//go:embed googleads.desc
var descriptorBytes []byte

// Only services under the Google Ads namespace with a services path
// segment are visible through the registry.
const (
	googleAdsPrefix = "google.ads.googleads."
	servicesSegment = ".services."
)

// Pool is an immutable index over a decoded descriptor set. Safe for
// concurrent read-only use.
type Pool struct {
	files    []*desc.FileDescriptor
	services []*desc.ServiceDescriptor
}

// Load decodes the embedded descriptor set. The bytes ship with the
// binary, so failure here is a build defect: callers treat it as fatal.
func Load() (*Pool, error) {
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(descriptorBytes, &set); err != nil {
		return nil, fmt.Errorf("decode embedded descriptor set: %w", err)
	}
	return NewPool(&set)
}

// NewPool builds a Pool from an already decoded descriptor set.
func NewPool(set *descriptorpb.FileDescriptorSet) (*Pool, error) {
	files, err := desc.CreateFileDescriptorsFromSet(set)
	if err != nil {
		return nil, fmt.Errorf("build file descriptors: %w", err)
	}

	// Map iteration order is random; sort by file name so every view of
	// the pool is deterministic.
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	p := &Pool{}
	for _, name := range names {
		fd := files[name]
		p.files = append(p.files, fd)
		for _, sd := range fd.GetServices() {
			if isVisibleService(sd) {
				p.services = append(p.services, sd)
			}
		}
	}
	sort.Slice(p.services, func(i, j int) bool {
		return ToKebab(p.services[i].GetName()) < ToKebab(p.services[j].GetName())
	})
	return p, nil
}

// Services returns the visible services sorted by hyphenated name. The
// returned slice is shared; callers must not modify it.
func (p *Pool) Services() []*desc.ServiceDescriptor {
	return p.services
}

// FindService resolves a service by declared name, hyphenated name, or
// fully-qualified name. Comparison ignores case and punctuation.
func (p *Pool) FindService(name string) (*desc.ServiceDescriptor, error) {
	for _, sd := range p.services {
		if namesMatch(sd.GetName(), name) ||
			namesMatch(ToKebab(sd.GetName()), name) ||
			namesMatch(sd.GetFullyQualifiedName(), name) {
			return sd, nil
		}
	}
	return nil, apperrors.NotFound("service", name)
}

// FindMethod resolves a method within a service, accepting the same
// three name forms for both tokens.
func (p *Pool) FindMethod(service, method string) (*desc.MethodDescriptor, error) {
	sd, err := p.FindService(service)
	if err != nil {
		return nil, err
	}
	for _, md := range sd.GetMethods() {
		if namesMatch(md.GetName(), method) ||
			namesMatch(ToKebab(md.GetName()), method) ||
			namesMatch(md.GetFullyQualifiedName(), method) {
			return md, nil
		}
	}
	return nil, apperrors.NotFound("method", method)
}

func isVisibleService(sd *desc.ServiceDescriptor) bool {
	fqn := sd.GetFullyQualifiedName()
	return strings.HasPrefix(fqn, googleAdsPrefix) && strings.Contains(fqn, servicesSegment)
}

// ToKebab converts a CamelCase or snake_case identifier to its
// hyphenated lower-case form: "SearchStream" -> "search-stream".
func ToKebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == '_':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize reduces a name to lower-case alphanumerics, the form used
// for punctuation-insensitive comparison.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r >= 'A' && r <= 'Z' {
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

func namesMatch(candidate, input string) bool {
	return Normalize(candidate) == Normalize(input)
}
