package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// MockECRClient implements the API interface for testing. Listing calls
// return the scripted pages in call order.
type MockECRClient struct {
	RepositoryPages        []*ecr.DescribeRepositoriesOutput
	ImagePages             []*ecr.DescribeImagesOutput
	BatchDeleteImageOutput *ecr.BatchDeleteImageOutput

	// Errors to return on the given 1-based call (0 means never)
	DescribeRepositoriesErrorAt int
	DescribeRepositoriesError   error
	DescribeImagesErrorAt       int
	DescribeImagesError         error
	BatchDeleteImageErrorAt     int
	BatchDeleteImageError       error

	// Track calls to methods
	DescribeRepositoriesCalls int
	DescribeImagesCalls       int
	BatchDeleteImageCalls     int

	// Capture inputs for validation
	DescribeRepositoriesInputs []*ecr.DescribeRepositoriesInput
	DescribeImagesInputs       []*ecr.DescribeImagesInput
	BatchDeleteImageInputs     []*ecr.BatchDeleteImageInput
}

// DescribeRepositories mock implementation
func (m *MockECRClient) DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error) {
	m.DescribeRepositoriesCalls++
	m.DescribeRepositoriesInputs = append(m.DescribeRepositoriesInputs, params)

	if m.DescribeRepositoriesCalls == m.DescribeRepositoriesErrorAt {
		return nil, m.DescribeRepositoriesError
	}
	if m.DescribeRepositoriesCalls > len(m.RepositoryPages) {
		return nil, &types.ServerException{Message: aws.String("unexpected DescribeRepositories call")}
	}

	return m.RepositoryPages[m.DescribeRepositoriesCalls-1], nil
}

// DescribeImages mock implementation
func (m *MockECRClient) DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error) {
	m.DescribeImagesCalls++
	m.DescribeImagesInputs = append(m.DescribeImagesInputs, params)

	if m.DescribeImagesCalls == m.DescribeImagesErrorAt {
		return nil, m.DescribeImagesError
	}
	if m.DescribeImagesCalls > len(m.ImagePages) {
		return nil, &types.ServerException{Message: aws.String("unexpected DescribeImages call")}
	}

	return m.ImagePages[m.DescribeImagesCalls-1], nil
}

// BatchDeleteImage mock implementation. Without a scripted output every
// requested id is reported as deleted.
func (m *MockECRClient) BatchDeleteImage(ctx context.Context, params *ecr.BatchDeleteImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchDeleteImageOutput, error) {
	m.BatchDeleteImageCalls++
	m.BatchDeleteImageInputs = append(m.BatchDeleteImageInputs, params)

	if m.BatchDeleteImageCalls == m.BatchDeleteImageErrorAt {
		return nil, m.BatchDeleteImageError
	}
	if m.BatchDeleteImageOutput != nil {
		return m.BatchDeleteImageOutput, nil
	}

	return &ecr.BatchDeleteImageOutput{ImageIds: params.ImageIds}, nil
}

// repositoryPages chains the given pages with next tokens.
func repositoryPages(pages ...[]types.Repository) []*ecr.DescribeRepositoriesOutput {
	out := make([]*ecr.DescribeRepositoriesOutput, len(pages))
	for i, repos := range pages {
		out[i] = &ecr.DescribeRepositoriesOutput{Repositories: repos}
		if i < len(pages)-1 {
			out[i].NextToken = aws.String(fmt.Sprintf("repos-page-%d", i+2))
		}
	}
	return out
}

// imagePages chains the given pages with next tokens.
func imagePages(pages ...[]types.ImageDetail) []*ecr.DescribeImagesOutput {
	out := make([]*ecr.DescribeImagesOutput, len(pages))
	for i, images := range pages {
		out[i] = &ecr.DescribeImagesOutput{ImageDetails: images}
		if i < len(pages)-1 {
			out[i].NextToken = aws.String(fmt.Sprintf("images-page-%d", i+2))
		}
	}
	return out
}

func imageDetail(digest string, pushedAtUnix int64) types.ImageDetail {
	return types.ImageDetail{
		ImageDigest:      aws.String(digest),
		ImagePushedAt:    aws.Time(time.Unix(pushedAtUnix, 0)),
		ImageSizeInBytes: aws.Int64(1024 * 1024),
	}
}

// fakeRepository is a stateful single-repository registry: deletes are
// visible to later listings.
type fakeRepository struct {
	images   []types.ImageDetail
	pageSize int

	BatchDeleteImageInputs []*ecr.BatchDeleteImageInput
}

func (f *fakeRepository) DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error) {
	return &ecr.DescribeRepositoriesOutput{
		Repositories: []types.Repository{{RepositoryName: aws.String("fake")}},
	}, nil
}

func (f *fakeRepository) DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error) {
	start := 0
	if params.NextToken != nil {
		if _, err := fmt.Sscanf(*params.NextToken, "offset-%d", &start); err != nil {
			return nil, &types.InvalidParameterException{Message: aws.String("bad token")}
		}
	}

	end := start + f.pageSize
	out := &ecr.DescribeImagesOutput{}
	if end < len(f.images) {
		out.NextToken = aws.String(fmt.Sprintf("offset-%d", end))
	} else {
		end = len(f.images)
	}
	out.ImageDetails = append(out.ImageDetails, f.images[start:end]...)
	return out, nil
}

func (f *fakeRepository) BatchDeleteImage(ctx context.Context, params *ecr.BatchDeleteImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchDeleteImageOutput, error) {
	f.BatchDeleteImageInputs = append(f.BatchDeleteImageInputs, params)

	out := &ecr.BatchDeleteImageOutput{}
	for _, id := range params.ImageIds {
		idx := -1
		for i, img := range f.images {
			if aws.ToString(img.ImageDigest) == aws.ToString(id.ImageDigest) {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Failures = append(out.Failures, types.ImageFailure{
				ImageId:       &types.ImageIdentifier{ImageDigest: id.ImageDigest},
				FailureCode:   types.ImageFailureCodeImageNotFound,
				FailureReason: aws.String("Requested image not found"),
			})
			continue
		}
		f.images = append(f.images[:idx], f.images[idx+1:]...)
		out.ImageIds = append(out.ImageIds, id)
	}
	return out, nil
}
