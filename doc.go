// Package variantschema validates wheel-variants metadata documents and
// emits the matching JSON Schema.
//
// It provides:
//
//   - Parsing and validation of variants documents (Parse/ParseBytes/
//     ParseYAMLBytes) into immutable typed values
//   - A stable error model via Issues (JSON Pointer, code, message)
//   - Presence metadata through the WithMeta APIs, distinguishing fields
//     that were seen, null, or filled from a default
//   - Canonical serialization (hyphenated keys) that round-trips through
//     validation
//   - A draft 2020-12 JSON Schema artifact describing the full rule set
//     (JSONSchema/EmitJSONSchema)
//
// Design policy:
//   - Keep public APIs in the root package; the jsonschema subpackage holds
//     only the portable schema representation.
//   - The CLI lives under cmd/variantschema.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := variantschema.ParseBytes(ctx, data)
//	dm, err := variantschema.ParseBytesWithMeta(ctx, data)
//	text, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{Indent: 2, Metadata: true})
//
// All entry points are stateless and safe for concurrent use.
package variantschema
