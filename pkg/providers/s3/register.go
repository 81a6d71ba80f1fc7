package s3

import (
	"fmt"

	"github.com/stackform/stackform/pkg/config"
	"github.com/stackform/stackform/pkg/construct"
)

// RegisterTypes registers the S3 resource types with a manifest type
// registry.
func RegisterTypes(reg *config.TypeRegistry) error {
	if err := reg.Register(TypeBucket, buildBucket); err != nil {
		return err
	}
	return reg.Register(TypeBucketPolicy, buildBucketPolicy)
}

func buildBucket(parent *construct.Construct, cfg config.ResourceConfig) (*construct.Resource, error) {
	var props BucketProps

	if v, ok := cfg.Properties["BucketName"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("BucketName must be a string, got %T", v)
		}
		props.BucketName = name
	}
	if v, ok := cfg.Properties["Tags"]; ok {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("Tags must be a list, got %T", v)
		}
		for i, item := range items {
			tag, err := decodeTag(item)
			if err != nil {
				return nil, fmt.Errorf("Tags[%d]: %w", i, err)
			}
			props.Tags = append(props.Tags, tag)
		}
	}

	b, err := NewBucket(parent, cfg.ID, props)
	if err != nil {
		return nil, err
	}
	return b.Resource, nil
}

func buildBucketPolicy(parent *construct.Construct, cfg config.ResourceConfig) (*construct.Resource, error) {
	props := BucketPolicyProps{
		Document: cfg.Properties["PolicyDocument"],
	}
	p, err := NewBucketPolicy(parent, cfg.ID, props)
	if err != nil {
		return nil, err
	}
	return p.Resource, nil
}

func decodeTag(v any) (Tag, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Tag{}, fmt.Errorf("tag must be a mapping, got %T", v)
	}
	key, _ := m["Key"].(string)
	value, _ := m["Value"].(string)
	if key == "" {
		return Tag{}, fmt.Errorf("tag is missing a Key")
	}
	return Tag{Key: key, Value: value}, nil
}
