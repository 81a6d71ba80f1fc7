// Package construct implements the Stackform core: a hierarchical graph
// of configuration nodes, capability-based link resolution, typed
// observable properties, and deterministic document rendering.
//
// # Overview
//
// Callers build a tree of constructs under a root. Each construct is
// owned by exactly one parent, carries an id unique among its siblings,
// and may carry a Resource payload with named properties. Construction
// may pass a list of linkables (tweaks, resources, or plain constructs);
// Link resolves every linkable against every node in the subtree by
// capability matching, top-down, in child-insertion order. Finally
// RenderAll flattens the tree into a deterministic Document keyed by
// path-derived logical ids.
//
// # Core Types
//
//   - Construct: a node in the ownership tree with identity, advertised
//     capability tags, and link handlers
//   - Resource: a construct owning named properties that renders into
//     the output document
//   - Property: a closed set of observable value variants (Scalar,
//     Collection, Relationship); Derive maintains a computed Scalar
//   - Linkable: anything that can attach itself to a matching node
//   - Document: the rendered output, logical id -> {type, properties}
//
// # Linkable Protocol
//
// A construct advertises capability tags (MakeLinkableAs) and accepts
// link handlers (MakeLinkableTo). A linkable targets tags; it attaches to
// a node exactly when the two tag sets intersect. A node built under a
// floating scope (NewFloatingScope) is adopted by the first concrete node
// it is linked against.
//
// # Errors
//
// All violations surface as *Error values classified by Code, raised
// synchronously and never retried. There is no transactional rollback: an
// error aborts the in-progress construction or link call and may leave
// the tree partially mutated.
//
// The package is single-threaded; a tree belongs to one construction
// session on one goroutine.
package construct
