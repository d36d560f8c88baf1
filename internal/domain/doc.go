// Package domain contains the core entities and error taxonomy for anchorpatch.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (file system, logging, CLI) and
// contains only pure text-matching rules.
//
// # Entities
//
//   - [Document]: The in-memory text of one target file during an invocation
//   - [Rule]: A literal anchor, its replacement and an occurrence [Policy]
//   - [PatchError]: The failure of a rule or of the file round-trip
//
// # Design Principles
//
// Rules are purely textual. Anchors are compared byte-for-byte: no wildcards,
// no regular expressions, no offsets and no line-ending normalization.
package domain
