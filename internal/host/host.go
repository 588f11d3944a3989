// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package host defines the contract between the adapter and the tabular-analytics
// host that consumes it: the host's column type vocabulary, its table schema
// shape and the callback interfaces a connector registers with the host runtime.
//
// It also provides Local, an in-process runtime that drives a registered
// connector the way a host would and turns its callbacks into return values.
package host

import (
	"context"
	"encoding/json"
)

// DataType is a column type tag from the host's fixed type vocabulary.
// The zero value means the remote type had no mapping.
type DataType string

const (
	Int      DataType = "int"
	String   DataType = "string"
	Float    DataType = "float"
	Bool     DataType = "bool"
	Date     DataType = "date"
	DateTime DataType = "datetime"
	Geometry DataType = "geometry"

	// Unmapped marks a column whose remote type is not supported.
	Unmapped DataType = ""
)

// MarshalJSON encodes an unmapped type as null.
func (d DataType) MarshalJSON() ([]byte, error) {
	if d == Unmapped {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts null as Unmapped.
func (d *DataType) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Unmapped
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = DataType(s)
	return nil
}

// Column describes one column of a host table. Description holds the
// lower-cased remote column name and is the key used to read row values.
type Column struct {
	ID          string   `json:"id"`
	Alias       string   `json:"alias"`
	Description string   `json:"description"`
	DataType    DataType `json:"dataType"`
}

// TableSchema is the host's table record. The order of Columns is the order
// of every row produced for the table.
type TableSchema struct {
	ID          string   `json:"id"`
	Alias       string   `json:"alias"`
	Description string   `json:"description"`
	Columns     []Column `json:"columns,omitempty"`
}

// Table is handed to a connector's data callback.
type Table struct {
	Info TableSchema

	appendRows func(rows [][]any)
}

// NewTable creates a Table whose AppendRows forwards to sink.
func NewTable(info TableSchema, sink func(rows [][]any)) *Table {
	return &Table{Info: info, appendRows: sink}
}

// AppendRows hands converted rows to the host.
func (t *Table) AppendRows(rows [][]any) {
	if t.appendRows != nil {
		t.appendRows(rows)
	}
}

// SchemaCallback receives the complete schema list of a schema pass.
type SchemaCallback func(schemas []TableSchema)

// Connector is what the adapter registers with the host runtime.
type Connector interface {
	// Init is called once per page session before any schema or data calls.
	Init(ctx context.Context, done func())
	// GetSchema must eventually call cb or abort through the runtime.
	GetSchema(ctx context.Context, cb SchemaCallback)
	// GetData must append rows to table and call done, or abort through the runtime.
	GetData(ctx context.Context, table *Table, done func())
}

// Runtime is the host connector runtime the adapter is loaded into.
type Runtime interface {
	Register(c Connector)
	// AbortWithError terminates the schema or data call in progress. Connectors
	// abort before the method that received the call returns.
	AbortWithError(err error)
	// ConnectionData returns the serialized connection state stored by the host.
	ConnectionData() string
	// CurrentURL is the URL the connector page was loaded from.
	CurrentURL() string
}
