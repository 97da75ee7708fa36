// Package metadata is the read-only view of the binding layer's declared
// types, members and attribute markers that drives documentation synthesis.
//
// The model is loaded from a YAML manifest exported alongside the compiled
// binding module. Declaration order is preserved and is observable in the
// output of a run.
package metadata

import (
	"fmt"
	"os"
	"strings"

	"github.com/FocuswithJustin/docfixer/core/errors"
	"gopkg.in/yaml.v3"
)

// VoidType is the return type of methods that produce no value.
const VoidType = "System.Void"

// Kind distinguishes properties from methods.
type Kind int

const (
	KindProperty Kind = iota
	KindMethod
)

func (k Kind) String() string {
	if k == KindMethod {
		return "method"
	}
	return "property"
}

// Model is the read-only metadata consumed by a synchronization run.
type Model interface {
	// Types returns every declared type in declaration order.
	Types() []*Type
	// Lookup finds a type by its full name.
	Lookup(fullName string) (*Type, bool)
}

// Type is a declared binding type.
type Type struct {
	Namespace  string    `yaml:"namespace"`
	Name       string    `yaml:"name"`
	ThreadSafe bool      `yaml:"thread_safe"`
	BaseType   *BaseType `yaml:"base_type"`
	Properties []*Member `yaml:"properties"`
	Methods    []*Member `yaml:"methods"`
}

// FullName returns the namespace-qualified name.
func (t *Type) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Property returns the property named name, or nil.
func (t *Type) Property(name string) *Member {
	for _, p := range t.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// BaseType carries the delegate-backed event pairs of a type.
type BaseType struct {
	Events []EventPair `yaml:"events"`
}

// EventPair links a delegate type to the generated accessor that exposes it.
type EventPair struct {
	Delegate string `yaml:"delegate"`
	Accessor string `yaml:"accessor"`
}

// Parameter is a declared method parameter.
type Parameter struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	NullAllowed bool   `yaml:"null_allowed"`
}

// Field marks a property bound to a native constant.
type Field struct {
	Symbol string `yaml:"symbol"`
}

// Notification marks a constant that names a posted notification.
type Notification struct {
	EventArgs string `yaml:"event_args"`
}

// Async marks a method that has a generated task-returning counterpart.
type Async struct {
	MethodName     string `yaml:"method_name"`
	ResultTypeName string `yaml:"result_type_name"`
}

// Export carries the native selector a member is bound to.
type Export struct {
	Selector string `yaml:"selector"`
}

// Member is a declared property or method with its markers.
type Member struct {
	Name         string        `yaml:"name"`
	Kind         Kind          `yaml:"-"`
	Type         string        `yaml:"type"`
	ReturnType   string        `yaml:"return_type"`
	Parameters   []Parameter   `yaml:"parameters"`
	Field        *Field        `yaml:"field"`
	Notification *Notification `yaml:"notification"`
	NullAllowed  bool          `yaml:"null_allowed"`
	ThreadSafe   bool          `yaml:"thread_safe"`
	Async        *Async        `yaml:"async"`
	Export       *Export       `yaml:"export"`
	Wrap         string        `yaml:"wrap"`
	Internal     bool          `yaml:"internal"`
}

// Returns reports whether a method produces a value.
func (m *Member) Returns() bool {
	return m.ReturnType != "" && m.ReturnType != VoidType
}

// AsyncName is the name of the generated task-returning counterpart.
func (m *Member) AsyncName() string {
	if m.Async != nil && m.Async.MethodName != "" {
		return m.Async.MethodName
	}
	return m.Name + "Async"
}

// Manifest is a Model decoded from YAML.
type Manifest struct {
	Declared []*Type `yaml:"types"`

	index map[string]*Type
}

// Types returns every declared type in declaration order.
func (m *Manifest) Types() []*Type {
	return m.Declared
}

// Lookup finds a type by its full name.
func (m *Manifest) Lookup(fullName string) (*Type, bool) {
	t, ok := m.index[fullName]
	return t, ok
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return m, nil
}

// Parse decodes and validates manifest data.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewParse("YAML", "", err.Error())
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) init() error {
	m.index = make(map[string]*Type, len(m.Declared))
	for i, t := range m.Declared {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			return errors.NewValidation(fmt.Sprintf("types[%d].name", i), "must not be empty")
		}
		full := t.FullName()
		if _, dup := m.index[full]; dup {
			return errors.NewValidation(fmt.Sprintf("types[%d]", i), "duplicate type "+full)
		}
		m.index[full] = t

		for j, p := range t.Properties {
			if err := validateMember(full, "properties", j, p); err != nil {
				return err
			}
			p.Kind = KindProperty
		}
		for j, mm := range t.Methods {
			if err := validateMember(full, "methods", j, mm); err != nil {
				return err
			}
			mm.Kind = KindMethod
		}
		if t.BaseType != nil {
			for j, ev := range t.BaseType.Events {
				if ev.Delegate == "" || ev.Accessor == "" {
					return errors.NewValidation(fmt.Sprintf("%s.base_type.events[%d]", full, j), "delegate and accessor are required")
				}
			}
		}
	}
	return nil
}

func validateMember(typeName, list string, i int, m *Member) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return errors.NewValidation(fmt.Sprintf("%s.%s[%d].name", typeName, list, i), "must not be empty")
	}
	if m.Field != nil && m.Field.Symbol == "" {
		return errors.NewValidation(fmt.Sprintf("%s.%s.field.symbol", typeName, m.Name), "must not be empty")
	}
	if m.Export != nil && m.Export.Selector == "" {
		return errors.NewValidation(fmt.Sprintf("%s.%s.export.selector", typeName, m.Name), "must not be empty")
	}
	for k, p := range m.Parameters {
		if p.Name == "" {
			return errors.NewValidation(fmt.Sprintf("%s.%s.parameters[%d].name", typeName, m.Name, k), "must not be empty")
		}
	}
	return nil
}
