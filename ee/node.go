// Package ee builds server-side expression graphs for an Earth Engine
// compatible geospatial platform. Every handle (Image, ImageCollection,
// Filter...) is an opaque reference to a node of a DAG of function
// invocations; nothing is computed locally. The graph is serialized to the
// platform's expression wire format (see serialize.go) and evaluated
// remotely, either by the caller or through Client.
package ee

import (
	"fmt"
	"time"
)

type nodeKind int

const (
	kindConstant nodeKind = iota
	kindInvocation
	kindArgumentRef
	kindLambda
	kindArray
	kindDict
)

// node is one vertex of the expression DAG. Nodes are immutable once built:
// every operation allocates a new node pointing to its inputs. Building is
// safe for concurrent use, every graph is independent.
type node struct {
	kind     nodeKind
	constant interface{}      // kindConstant
	fn       string           // kindInvocation: remote function name
	args     map[string]*node // kindInvocation
	params   []*node          // kindLambda: argument nodes
	body     *node            // kindLambda
	items    []*node          // kindArray
	entries  map[string]*node // kindDict
}

func constNode(v interface{}) *node {
	return &node{kind: kindConstant, constant: v}
}

func call(fn string, args map[string]*node) *node {
	return &node{kind: kindInvocation, fn: fn, args: args}
}

// argNode is a lambda argument placeholder. Arguments are anonymous until
// serialization, where they are named from the lambda nesting depth, so
// nested mapped functions never shadow each other.
func argNode() *node {
	return &node{kind: kindArgumentRef}
}

func lambda(params []*node, body *node) *node {
	return &node{kind: kindLambda, params: params, body: body}
}

func arrayOf(items []*node) *node {
	return &node{kind: kindArray, items: items}
}

// Object is any handle backed by an expression node
type Object interface {
	node() *node
}

// args is a convenience alias for building invocation arguments from a mix of
// handles and Go natives
type args map[string]interface{}

func callArgs(fn string, a args) *node {
	m := make(map[string]*node, len(a))
	for k, v := range a {
		m[k] = toNode(v)
	}
	return call(fn, m)
}

// toNode promotes a Go value to an expression node. Handles are passed
// through, everything else becomes a constant.
func toNode(v interface{}) *node {
	switch v := v.(type) {
	case nil:
		return constNode(nil)
	case *node:
		return v
	case Object:
		return v.node()
	case time.Time:
		return constNode(v.UTC().Format("2006-01-02T15:04:05Z"))
	case []string:
		items := make([]*node, len(v))
		for i, s := range v {
			items[i] = constNode(s)
		}
		return arrayOf(items)
	case []int:
		items := make([]*node, len(v))
		for i, n := range v {
			items[i] = constNode(n)
		}
		return arrayOf(items)
	case []float64:
		items := make([]*node, len(v))
		for i, f := range v {
			items[i] = constNode(f)
		}
		return arrayOf(items)
	case []interface{}:
		items := make([]*node, len(v))
		for i, o := range v {
			items[i] = toNode(o)
		}
		return arrayOf(items)
	case bool, int, int32, int64, float32, float64, string:
		return constNode(v)
	}
	panic(fmt.Sprintf("ee: cannot build an expression node from %T", v))
}
