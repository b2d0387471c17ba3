package registry

import (
	"sort"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/protobuf/types/descriptorpb"
)

// treeVersion is bumped when the CommandTree layout changes.
const treeVersion = 1

// CommandTree is a deterministic snapshot of the visible services and
// methods, used for introspection and help surfaces.
type CommandTree struct {
	Version    int          `json:"version"`
	APIVersion string       `json:"api_version"`
	Services   []ServiceDef `json:"services"`
}

// ServiceDef describes one visible service.
type ServiceDef struct {
	Name     string      `json:"name"`
	FullName string      `json:"full_name"`
	Methods  []MethodDef `json:"methods"`
}

// MethodDef describes one method of a service.
type MethodDef struct {
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	InputType       string `json:"input_type"`
	OutputType      string `json:"output_type"`
	ClientStreaming bool   `json:"client_streaming"`
	ServerStreaming bool   `json:"server_streaming"`
}

// MethodDescription is the flat projection of a method's request shape.
type MethodDescription struct {
	Service    string     `json:"service"`
	Method     string     `json:"method"`
	InputType  string     `json:"input_type"`
	OutputType string     `json:"output_type"`
	Fields     []FieldDef `json:"fields"`
}

// FieldDef describes one field of a request message.
type FieldDef struct {
	Name        string `json:"name"`
	JSONName    string `json:"json_name"`
	Cardinality string `json:"cardinality"`
	Kind        string `json:"kind"`
	TypeName    string `json:"type_name"`
}

// BuildCommandTree enumerates the visible services with hyphenated
// names, sorted ascending at both levels. Output is identical across
// calls for the same pool.
func BuildCommandTree(p *Pool) CommandTree {
	services := make([]ServiceDef, 0, len(p.services))
	for _, sd := range p.services {
		methods := make([]MethodDef, 0, len(sd.GetMethods()))
		for _, md := range sd.GetMethods() {
			methods = append(methods, MethodDef{
				Name:            ToKebab(md.GetName()),
				FullName:        sd.GetFullyQualifiedName() + "/" + md.GetName(),
				InputType:       md.GetInputType().GetFullyQualifiedName(),
				OutputType:      md.GetOutputType().GetFullyQualifiedName(),
				ClientStreaming: md.IsClientStreaming(),
				ServerStreaming: md.IsServerStreaming(),
			})
		}
		sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
		services = append(services, ServiceDef{
			Name:     ToKebab(sd.GetName()),
			FullName: sd.GetFullyQualifiedName(),
			Methods:  methods,
		})
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })

	return CommandTree{
		Version:    treeVersion,
		APIVersion: apiVersion(p),
		Services:   services,
	}
}

// DescribeMethod resolves a method and projects its input type's fields
// into a flat list.
func DescribeMethod(p *Pool, service, method string) (MethodDescription, error) {
	md, err := p.FindMethod(service, method)
	if err != nil {
		return MethodDescription{}, err
	}

	input := md.GetInputType()
	fields := make([]FieldDef, 0, len(input.GetFields()))
	for _, fd := range input.GetFields() {
		fields = append(fields, fieldDef(fd))
	}

	return MethodDescription{
		Service:    md.GetService().GetFullyQualifiedName(),
		Method:     md.GetName(),
		InputType:  input.GetFullyQualifiedName(),
		OutputType: md.GetOutputType().GetFullyQualifiedName(),
		Fields:     fields,
	}, nil
}

func fieldDef(fd *desc.FieldDescriptor) FieldDef {
	var kind, typeName string
	switch {
	case fd.GetMessageType() != nil:
		typeName = fd.GetMessageType().GetFullyQualifiedName()
		kind = "message:" + typeName
	case fd.GetEnumType() != nil:
		typeName = fd.GetEnumType().GetFullyQualifiedName()
		kind = "enum:" + typeName
	default:
		typeName = scalarName(fd.GetType())
		kind = "scalar:" + typeName
	}
	return FieldDef{
		Name:        fd.GetName(),
		JSONName:    fd.GetJSONName(),
		Cardinality: cardinality(fd),
		Kind:        kind,
		TypeName:    typeName,
	}
}

func scalarName(t descriptorpb.FieldDescriptorProto_Type) string {
	return strings.ToLower(strings.TrimPrefix(t.String(), "TYPE_"))
}

func cardinality(fd *desc.FieldDescriptor) string {
	switch fd.GetLabel() {
	case descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		return "repeated"
	case descriptorpb.FieldDescriptorProto_LABEL_REQUIRED:
		return "required"
	default:
		return "optional"
	}
}

// apiVersion scans qualified service names for a path segment of the
// form v<digits>.
func apiVersion(p *Pool) string {
	for _, sd := range p.services {
		for _, part := range strings.Split(sd.GetFullyQualifiedName(), ".") {
			if isVersionToken(part) {
				return part
			}
		}
	}
	return "unknown"
}

func isVersionToken(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
