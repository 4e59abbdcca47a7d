// Package output renders canonicalized JSON trees as text and writes the
// result to its destination.
//
// The package is organized around two concerns:
//
//   - Serialization (serializer.go): pretty-printed JSON with sorted object
//     keys, a configurable indentation unit and a configurable newline
//     sequence that is also used as the document terminator.
//
//   - Writers (writer.go): pluggable destinations via the [Writer]
//     interface. [StdoutWriter] serves single-document mode and
//     [FileWriter] rewrites a sorted file in place.
package output
