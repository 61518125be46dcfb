// Package descriptor reads API descriptors into a version graph.
//
// Three encodings are understood:
//
//   - XML in the api-versions layout: <api>, <class>, <extends>,
//     <implements>, <method> and <field> elements carrying name, since,
//     deprecated and removed attributes
//   - YAML and JSON documents with the same shape, used for fixtures and
//     hand-written overlays
//
// Load selects the decoder from the file extension and transparently
// decompresses .gz, .zst and .lz4 files.
package descriptor
