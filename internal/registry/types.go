package registry

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// Repository is an ECR repository as returned by DescribeRepositories.
type Repository struct {
	Name      *string
	URI       *string
	CreatedAt *time.Time
}

// Image is one manifest in a repository as returned by DescribeImages.
type Image struct {
	Digest    *string
	Tags      []string
	PushedAt  *time.Time
	SizeBytes *int64
}

// pushedAtSeconds returns the push time as epoch seconds, 0 when unknown.
func (img Image) pushedAtSeconds() float64 {
	if img.PushedAt == nil {
		return 0
	}
	return float64(img.PushedAt.UnixNano()) / float64(time.Second)
}

// Decision is the outcome of the retention policy for one repository.
type Decision struct {
	Act     bool
	Victims []Image
}

// DeleteFailure is an image ECR refused to delete inside an otherwise
// successful BatchDeleteImage call.
type DeleteFailure struct {
	Digest string
	Code   string
	Reason string
}

// DeleteResult collects the digests removed and the per-image failures.
type DeleteResult struct {
	Deleted  []string
	Failures []DeleteFailure
}

// CleanResult summarizes a CleanRepository run.
type CleanResult struct {
	Repository string
	Total      int
	Decision   Decision
	Deleted    int
	Failures   []DeleteFailure
	SpaceFreed int64
	DryRun     bool
}

func repositoryFromSDK(r types.Repository) Repository {
	return Repository{
		Name:      r.RepositoryName,
		URI:       r.RepositoryUri,
		CreatedAt: r.CreatedAt,
	}
}

func imageFromSDK(d types.ImageDetail) Image {
	return Image{
		Digest:    d.ImageDigest,
		Tags:      d.ImageTags,
		PushedAt:  d.ImagePushedAt,
		SizeBytes: d.ImageSizeInBytes,
	}
}
