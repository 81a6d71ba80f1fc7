package s3

import (
	"github.com/stackform/stackform/pkg/construct"
)

// Statement is one entry in a policy document.
type Statement struct {
	Effect    string   `json:"Effect"`
	Action    []string `json:"Action"`
	Principal string   `json:"Principal,omitempty"`
}

// PolicyDocument is a renderable policy value: the renderer calls Render
// and embeds its result instead of the struct itself.
type PolicyDocument struct {
	Version    string
	Statements []Statement
}

// Render implements construct.Renderable.
func (d PolicyDocument) Render() (any, error) {
	version := d.Version
	if version == "" {
		version = "2012-10-17"
	}
	statements := make([]any, 0, len(d.Statements))
	for _, s := range d.Statements {
		statements = append(statements, s)
	}
	return map[string]any{
		"Version":   version,
		"Statement": statements,
	}, nil
}

// BucketPolicyProps configures a new bucket policy.
type BucketPolicyProps struct {
	// Bucket pre-links the policy to a bucket. When nil, the policy links
	// to the first bucket it is matched against during Link.
	Bucket *Bucket

	// Document is the policy document; it may be any renderable or plain
	// value.
	Document any
}

// BucketPolicy is an S3::BucketPolicy resource. It defines:
//
//   - Bucket: set-once link relationship targeting the "bucket" tag
//   - BucketName: scalar derived from the linked bucket's name
//   - PolicyDocument: scalar
//
// Once the relationship is set, BucketName tracks the linked bucket's
// BucketName scalar, so a tweak naming the bucket after linking still
// propagates here.
type BucketPolicy struct {
	*construct.Resource

	bucket *construct.Relationship
}

// NewBucketPolicy creates a bucket policy under parent.
func NewBucketPolicy(parent *construct.Construct, id string, props BucketPolicyProps) (*BucketPolicy, error) {
	r, err := construct.NewResource(parent, id, TypeBucketPolicy)
	if err != nil {
		return nil, err
	}
	r.MakeLinkableAs(TagBucketPolicy)

	var initial *construct.Resource
	if props.Bucket != nil {
		initial = props.Bucket.Resource
	}
	rel, err := r.AddLinkRelationship("Bucket", []string{TagBucket}, initial)
	if err != nil {
		return nil, err
	}

	name := construct.NewScalar()
	if err := r.AddProperty("BucketName", name); err != nil {
		return nil, err
	}
	rel.Observe(func(v any) {
		target := v.(*construct.Resource)
		if s, scalarErr := target.Scalar("BucketName"); scalarErr == nil {
			s.Observe(func(nv any) {
				name.Set(nv)
			})
		}
	})

	doc := construct.NewScalar()
	if err := r.AddProperty("PolicyDocument", doc); err != nil {
		return nil, err
	}
	if props.Document != nil {
		doc.Set(props.Document)
	}

	return &BucketPolicy{Resource: r, bucket: rel}, nil
}

// Bucket exposes the link relationship.
func (p *BucketPolicy) Bucket() *construct.Relationship {
	return p.bucket
}
