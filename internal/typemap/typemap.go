// Package typemap maps Discovery dictionary type names onto the host's column types.
package typemap

import "discoverybridge/cli/internal/host"

// remoteTypes is keyed by the exact type names the dictionary endpoints return.
var remoteTypes = map[string]host.DataType{
	"integer":   host.Int,
	"long":      host.Int,
	"string":    host.String,
	"decimal":   host.Float,
	"double":    host.Float,
	"float":     host.Float,
	"boolean":   host.Bool,
	"date":      host.Date,
	"timestamp": host.DateTime,
	"json":      host.Geometry,
	"nested":    host.String,
}

// Lookup returns the host type for a remote type name and whether it is supported.
// Matching is case-sensitive.
func Lookup(remote string) (host.DataType, bool) {
	t, ok := remoteTypes[remote]
	return t, ok
}

// Map returns the host type for a remote type name, or host.Unmapped.
func Map(remote string) host.DataType {
	return remoteTypes[remote]
}
