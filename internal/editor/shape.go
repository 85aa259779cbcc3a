// Package editor provides the recursive, shape-driven editing model for generic values:
// what editor a value gets, and the immutable edit operations each editor performs.
package editor

import (
	"slices"

	"github.com/edudesk/contentdesk/internal/value"
)

// Shape is the editor class of a value. It is derived from the value on every call.
type Shape int

// Editor shapes.
const (
	// ShapeScalar is a single text field.
	ShapeScalar Shape = iota
	// ShapeScalarList is one field per item with add and remove.
	ShapeScalarList
	// ShapeTable is a list of uniform records edited as rows and columns.
	ShapeTable
	// ShapeGroup is one labelled sub-editor per key.
	ShapeGroup
	// ShapeRaw is the JSON text fallback for lists that fit no other shape.
	ShapeRaw
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeScalarList:
		return "list"
	case ShapeTable:
		return "table"
	case ShapeGroup:
		return "group"
	case ShapeRaw:
		return "raw"
	}
	return "unknown"
}

// mixedMarker is a row field that signals a structured cell layout the table editor
// cannot represent.
const mixedMarker = "cells"

// ShapeOf classifies v.
func ShapeOf(v value.Value) Shape {
	switch tv := v.(type) {
	case value.Group:
		return ShapeGroup
	case value.List:
		return listShape(tv)
	}
	return ShapeScalar
}

func listShape(list value.List) Shape {
	if len(list) == 0 {
		return ShapeScalarList
	}

	allScalar := true
	for _, item := range list {
		if !value.IsScalar(item) {
			allScalar = false
			break
		}
	}
	if allScalar {
		return ShapeScalarList
	}

	if uniformRecords(list) {
		return ShapeTable
	}
	return ShapeRaw
}

func uniformRecords(list value.List) bool {
	var columns []string
	for i, item := range list {
		row, ok := item.(value.Group)
		if !ok || row.Has(mixedMarker) {
			return false
		}
		keys := row.Keys()
		slices.Sort(keys)
		if i == 0 {
			columns = keys
			continue
		}
		if !slices.Equal(columns, keys) {
			return false
		}
	}
	return true
}

// Node is the render plan for one value: which editor to show, under which label, and
// at which path. Hosts walk the tree to draw the form.
type Node struct {
	Label    string   `json:"label"`
	Path     string   `json:"path"`
	Shape    string   `json:"shape"`
	Text     string   `json:"text,omitempty"`
	Items    int      `json:"items,omitempty"`
	Columns  []string `json:"columns,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// Describe builds the render plan for v.
func Describe(label string, v value.Value) Node {
	return describe(label, nil, v)
}

func describe(label string, path Path, v value.Value) Node {
	shape := ShapeOf(v)
	node := Node{Label: label, Path: path.String(), Shape: shape.String()}

	switch shape {
	case ShapeScalar:
		node.Text = value.Text(v)
	case ShapeScalarList:
		list, _ := v.(value.List)
		node.Items = len(list)
		for i, item := range list {
			node.Children = append(node.Children, describe("", path.Index(i), item))
		}
	case ShapeTable:
		list, _ := v.(value.List)
		node.Items = len(list)
		node.Columns = Columns(list)
	case ShapeGroup:
		g, _ := v.(value.Group)
		node.Items = g.Len()
		for k, item := range g.All() {
			node.Children = append(node.Children, describe(k, path.Key(k), item))
		}
	case ShapeRaw:
		node.Text = value.Indent(v)
	}
	return node
}

// Columns returns the union of row keys in first-seen order.
func Columns(rows value.List) []string {
	var columns []string
	seen := map[string]bool{}
	for _, item := range rows {
		row, ok := item.(value.Group)
		if !ok {
			continue
		}
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	return columns
}
