package clients

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go/aws/endpoints"
)

// LoadAWSConfig resolves credentials once at startup through the default
// provider chain (env vars, shared credentials/config files, instance
// role). The daemon never handles credential material itself.
func LoadAWSConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	if region == "" {
		region = endpoints.UsWest2RegionID
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	return config.LoadDefaultConfig(ctx, opts...)
}
