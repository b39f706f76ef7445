package ee

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Expression is the wire form of an expression graph: a flat table of named
// values and the name of the result. Invocations and lambdas are stored in
// the table and referenced, so shared subgraphs are serialized once;
// constants, argument references, arrays and dictionaries are inlined.
type Expression struct {
	Result string               `json:"result"`
	Values map[string]ValueNode `json:"values"`
}

// ValueNode is a node of the wire expression. Exactly one field is set.
type ValueNode struct {
	Constant           *Constant           `json:"constantValue,omitempty"`
	ArgumentReference  *string             `json:"argumentReference,omitempty"`
	ValueReference     *string             `json:"valueReference,omitempty"`
	FunctionInvocation *FunctionInvocation `json:"functionInvocationValue,omitempty"`
	FunctionDefinition *FunctionDefinition `json:"functionDefinitionValue,omitempty"`
	Array              *ArrayValue         `json:"arrayValue,omitempty"`
	Dictionary         *DictionaryValue    `json:"dictionaryValue,omitempty"`
}

// Constant wraps a constant value so that zero values (0, false, "" or null)
// survive the omitempty of ValueNode
type Constant struct {
	Value interface{}
}

// MarshalJSON implements json.Marshaler
func (c Constant) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Constant) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &c.Value)
}

// FunctionInvocation is a call to a named remote operator
type FunctionInvocation struct {
	FunctionName string               `json:"functionName"`
	Arguments    map[string]ValueNode `json:"arguments"`
}

// FunctionDefinition is a lambda passed to a mapping operator. Body is the
// name of the table entry holding the lambda body.
type FunctionDefinition struct {
	ArgumentNames []string `json:"argumentNames"`
	Body          string   `json:"body"`
}

// ArrayValue is an ordered list of nodes
type ArrayValue struct {
	Values []ValueNode `json:"values"`
}

// DictionaryValue is a string-keyed map of nodes
type DictionaryValue struct {
	Values map[string]ValueNode `json:"values"`
}

// Serialize flattens the expression graph of the handle into its wire form.
// Serialization is deterministic: the same build sequence yields the same
// table names.
func Serialize(o Object) (*Expression, error) {
	s := serializer{names: map[*node]string{}, values: map[string]ValueNode{}, argNames: map[*node]string{}}
	result, err := s.tableRef(o.node())
	if err != nil {
		return nil, fmt.Errorf("Serialize.%w", err)
	}
	return &Expression{Result: result, Values: s.values}, nil
}

type serializer struct {
	names    map[*node]string
	values   map[string]ValueNode
	argNames map[*node]string // lambda argument nodes, named on the way down
	depth    int              // lambda nesting depth of the node being serialized
	next     int
}

// valueNode returns the inline wire form of the node, referencing the value
// table for invocations and lambdas
func (s *serializer) valueNode(n *node) (ValueNode, error) {
	switch n.kind {
	case kindConstant:
		return ValueNode{Constant: &Constant{Value: n.constant}}, nil

	case kindArgumentRef:
		name, ok := s.argNames[n]
		if !ok {
			return ValueNode{}, fmt.Errorf("valueNode: argument referenced outside of its function")
		}
		return ValueNode{ArgumentReference: &name}, nil

	case kindArray:
		arr := ArrayValue{Values: make([]ValueNode, len(n.items))}
		for i, item := range n.items {
			v, err := s.valueNode(item)
			if err != nil {
				return ValueNode{}, err
			}
			arr.Values[i] = v
		}
		return ValueNode{Array: &arr}, nil

	case kindDict:
		dict := DictionaryValue{Values: make(map[string]ValueNode, len(n.entries))}
		for _, k := range sortedKeys(n.entries) {
			v, err := s.valueNode(n.entries[k])
			if err != nil {
				return ValueNode{}, err
			}
			dict.Values[k] = v
		}
		return ValueNode{Dictionary: &dict}, nil

	case kindInvocation, kindLambda:
		ref, err := s.tableRef(n)
		if err != nil {
			return ValueNode{}, err
		}
		return ValueNode{ValueReference: &ref}, nil
	}
	return ValueNode{}, fmt.Errorf("valueNode: unknown node kind %d", n.kind)
}

// tableRef serializes the node into the value table and returns its name.
// Children are named before their parents.
func (s *serializer) tableRef(n *node) (string, error) {
	if name, ok := s.names[n]; ok {
		return name, nil
	}

	var entry ValueNode
	switch n.kind {
	case kindInvocation:
		if n.fn == "" {
			return "", fmt.Errorf("tableRef: invocation without a function name")
		}
		inv := FunctionInvocation{FunctionName: n.fn, Arguments: make(map[string]ValueNode, len(n.args))}
		for _, k := range sortedKeys(n.args) {
			v, err := s.valueNode(n.args[k])
			if err != nil {
				return "", err
			}
			inv.Arguments[k] = v
		}
		entry = ValueNode{FunctionInvocation: &inv}

	case kindLambda:
		argNames := make([]string, len(n.params))
		for i, p := range n.params {
			name := fmt.Sprintf("_MAPPING_VAR_%d_%d", s.depth, i)
			argNames[i] = name
			s.argNames[p] = name
		}
		s.depth++
		body, err := s.tableRef(n.body)
		s.depth--
		if err != nil {
			return "", err
		}
		entry = ValueNode{FunctionDefinition: &FunctionDefinition{ArgumentNames: argNames, Body: body}}

	default:
		// constants, arrays... can be the root of the expression
		v, err := s.valueNode(n)
		if err != nil {
			return "", err
		}
		entry = v
	}

	name := strconv.Itoa(s.next)
	s.next++
	s.names[n] = name
	s.values[name] = entry
	return name, nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
