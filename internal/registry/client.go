package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// API is the subset of the ECR client used here.
// This makes testing easier by allowing us to mock the AWS service.
type API interface {
	DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error)
	BatchDeleteImage(ctx context.Context, params *ecr.BatchDeleteImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchDeleteImageOutput, error)
}

// ClientOptions selects the region and shared-config profile for NewClient.
type ClientOptions struct {
	Region  string
	Profile string
}

// NewClient loads the AWS configuration and returns an ECR client.
func NewClient(ctx context.Context, opts ClientOptions) (*ecr.Client, error) {
	awsConfig, err := loadAWSConfig(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return ecr.NewFromConfig(awsConfig), nil
}

// loadAWSConfig loads the AWS configuration
func loadAWSConfig(ctx context.Context, opts ClientOptions) (aws.Config, error) {
	configOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		configOpts = append(configOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	return config.LoadDefaultConfig(ctx, configOpts...)
}
