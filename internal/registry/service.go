package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"go.uber.org/zap"
)

// Service lists and cleans repositories of one registry.
type Service struct {
	api        API
	registryID *string
	pageSize   *int32
	maxPages   int
	dryRun     bool
	logger     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRegistryID targets a registry other than the caller's default one.
func WithRegistryID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.registryID = aws.String(id)
		}
	}
}

// WithPageSize sets maxResults on listing calls. Zero leaves the service default.
func WithPageSize(n int32) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = aws.Int32(n)
		}
	}
}

// WithMaxPages bounds every drain.
func WithMaxPages(n int) Option {
	return func(s *Service) {
		s.maxPages = n
	}
}

// WithDryRun makes CleanRepository select victims without deleting them.
func WithDryRun(dryRun bool) Option {
	return func(s *Service) {
		s.dryRun = dryRun
	}
}

// WithLogger sets the logger for diagnostic events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wraps api. The api is only read from, so one client may back
// any number of services.
func NewService(api API, opts ...Option) *Service {
	s := &Service{
		api:      api,
		maxPages: DefaultMaxPages,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRepositories returns every repository, sorted by name.
func (s *Service) ListRepositories(ctx context.Context) ([]Repository, error) {
	fetch := func(ctx context.Context, cursor *string) (Page[Repository], error) {
		out, err := s.api.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
			RegistryId: s.registryID,
			MaxResults: s.pageSize,
			NextToken:  cursor,
		})
		if err != nil {
			return Page[Repository]{}, err
		}
		if out == nil {
			return Page[Repository]{}, nil
		}

		s.logger.Debug("repository page received",
			zap.Int("repositories", len(out.Repositories)),
			zap.Bool("more", out.NextToken != nil))

		page := Page[Repository]{NextCursor: out.NextToken}
		for _, r := range out.Repositories {
			page.Items = append(page.Items, repositoryFromSDK(r))
		}
		return page, nil
	}

	repositories, err := Drain(ctx, fetch, DrainOptions{
		Op:           "list repositories",
		EmptyMessage: "no repositories found",
		MaxPages:     s.maxPages,
	})
	if err != nil {
		return nil, err
	}

	SortRepositories(repositories)
	return repositories, nil
}

// ListImages returns every image of repository, newest first.
func (s *Service) ListImages(ctx context.Context, repository string) ([]Image, error) {
	fetch := func(ctx context.Context, cursor *string) (Page[Image], error) {
		out, err := s.api.DescribeImages(ctx, &ecr.DescribeImagesInput{
			RepositoryName: aws.String(repository),
			RegistryId:     s.registryID,
			MaxResults:     s.pageSize,
			NextToken:      cursor,
		})
		if err != nil {
			return Page[Image]{}, err
		}
		if out == nil {
			return Page[Image]{}, nil
		}

		s.logger.Debug("image page received",
			zap.String("repository", repository),
			zap.Int("images", len(out.ImageDetails)),
			zap.Bool("more", out.NextToken != nil))

		page := Page[Image]{NextCursor: out.NextToken}
		for _, d := range out.ImageDetails {
			page.Items = append(page.Items, imageFromSDK(d))
		}
		return page, nil
	}

	images, err := Drain(ctx, fetch, DrainOptions{
		Op:           "list images",
		EmptyMessage: fmt.Sprintf("no images found in repository %s", repository),
		MaxPages:     s.maxPages,
	})
	if err != nil {
		return nil, err
	}

	SortImages(images)
	return images, nil
}

// CleanRepository deletes the count oldest images of repository once it
// holds at least threshold images. On a delete failure the returned result
// reflects what was removed before the failure.
func (s *Service) CleanRepository(ctx context.Context, repository string, threshold, count uint64) (CleanResult, error) {
	result := CleanResult{Repository: repository, DryRun: s.dryRun}

	images, err := s.ListImages(ctx, repository)
	if err != nil {
		return result, err
	}
	result.Total = len(images)

	result.Decision = Evaluate(images, threshold, count)
	if !result.Decision.Act {
		s.logger.Info("threshold not met",
			zap.String("repository", repository),
			zap.Int("images", result.Total),
			zap.Uint64("threshold", threshold))
		return result, nil
	}

	s.logger.Info("threshold met",
		zap.String("repository", repository),
		zap.Int("images", result.Total),
		zap.Uint64("threshold", threshold),
		zap.Int("victims", len(result.Decision.Victims)))

	if s.dryRun {
		result.SpaceFreed = totalSize(result.Decision.Victims)
		return result, nil
	}

	deleted, err := DeleteImages(ctx, s.api, repository, s.registryID, result.Decision.Victims)
	result.Deleted = len(deleted.Deleted)
	result.SpaceFreed = deletedSize(result.Decision.Victims, deleted.Deleted)
	result.Failures = deleted.Failures
	for _, f := range deleted.Failures {
		s.logger.Warn("failed to delete image",
			zap.String("repository", repository),
			zap.String("digest", f.Digest),
			zap.String("code", f.Code),
			zap.String("reason", f.Reason))
	}
	if err != nil {
		return result, err
	}

	s.logger.Info("deleted images",
		zap.String("repository", repository),
		zap.Int("deleted", result.Deleted))

	return result, nil
}

// totalSize sums the sizes of images.
func totalSize(images []Image) int64 {
	var total int64
	for _, img := range images {
		total += aws.ToInt64(img.SizeBytes)
	}
	return total
}

// deletedSize sums the sizes of the images whose digest is in digests.
func deletedSize(images []Image, digests []string) int64 {
	deleted := make(map[string]struct{}, len(digests))
	for _, d := range digests {
		deleted[d] = struct{}{}
	}

	var total int64
	for _, img := range images {
		if _, ok := deleted[aws.ToString(img.Digest)]; ok {
			total += aws.ToInt64(img.SizeBytes)
		}
	}
	return total
}
