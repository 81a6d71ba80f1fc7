package s3

import (
	"fmt"

	"github.com/stackform/stackform/pkg/construct"
)

// Resource type tags rendered into the output document.
const (
	TypeBucket       = "S3::Bucket"
	TypeBucketPolicy = "S3::BucketPolicy"
)

// Capability tags advertised for link matching, in addition to the
// resource types themselves.
const (
	TagBucket       = "bucket"
	TagBucketPolicy = "bucket-policy"
)

// Tag is a key/value pair appended to a bucket's Tags collection.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// BucketProps configures a new bucket. Zero-valued fields leave the
// corresponding properties unset, to be filled in later by tweaks.
type BucketProps struct {
	// BucketName sets the BucketName scalar when non-empty.
	BucketName string

	// Tags seeds the Tags collection.
	Tags []Tag
}

// Bucket is an S3::Bucket resource. It advertises the "bucket" capability
// tag and defines:
//
//   - BucketName: scalar
//   - Tags: collection of Tag values
//   - Arn: scalar derived from BucketName
type Bucket struct {
	*construct.Resource

	name *construct.Scalar
	tags *construct.Collection
}

// NewBucket creates a bucket under parent.
func NewBucket(parent *construct.Construct, id string, props BucketProps) (*Bucket, error) {
	r, err := construct.NewResource(parent, id, TypeBucket)
	if err != nil {
		return nil, err
	}
	r.MakeLinkableAs(TagBucket)

	b := &Bucket{
		Resource: r,
		name:     construct.NewScalar(),
		tags:     construct.NewCollection(),
	}
	if err := r.AddProperty("BucketName", b.name); err != nil {
		return nil, err
	}
	if err := r.AddProperty("Tags", b.tags); err != nil {
		return nil, err
	}

	arn := construct.Derive(b.name, func(v any) any {
		return fmt.Sprintf("arn:aws:s3:::%v", v)
	})
	if err := r.AddProperty("Arn", arn); err != nil {
		return nil, err
	}

	if props.BucketName != "" {
		b.name.Set(props.BucketName)
	}
	for _, t := range props.Tags {
		b.tags.Add(t)
	}
	return b, nil
}

// BucketName exposes the name scalar so collaborators can observe it.
func (b *Bucket) BucketName() *construct.Scalar {
	return b.name
}

// Tags exposes the tag collection.
func (b *Bucket) Tags() *construct.Collection {
	return b.tags
}
