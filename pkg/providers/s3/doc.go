// Package s3 defines the storage resource types shipped with Stackform:
// Bucket and BucketPolicy. The package is a consumer of the construct
// core's public contract; it contains no engine logic of its own.
//
// A BucketPolicy links to a Bucket either explicitly (constructor
// property or pre-set relationship) or by capability matching during
// Link, including floating-scope auto-adoption. All four declaration
// styles render to identical documents.
package s3
