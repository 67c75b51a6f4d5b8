// Package sexpr converts YAML documents to S-expressions.
//
// The conversion pipeline has three stages: optional environment variable
// substitution on the raw document text, parsing the result with
// [github.com/goccy/go-yaml/parser], and building a node tree that renders
// as an S-expression in either compact or pretty form.
//
// Mapping entries become forms tagged "yaml:<key>", sequence elements of
// record sequences become forms tagged "yaml:item", and ISO calendar dates
// become (make-date YYYY MM DD) forms. Scalars classify as symbols, quoted
// strings, numbers, booleans, or nil according to both their declared YAML
// kind and their lexical shape.
package sexpr
