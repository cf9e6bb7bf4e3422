package registry

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// MaxBatchDelete is the BatchDeleteImage limit on image ids per call.
const MaxBatchDelete = 100

const missingDigestCode = "MissingDigest"

// DeleteImages deletes victims by digest, in selection order, in batches of
// at most MaxBatchDelete. Tags are never used, so every tag pointing at a
// digest goes with it. When a batch call fails the returned result still
// holds what earlier batches deleted; nothing is rolled back.
func DeleteImages(ctx context.Context, api API, repository string, registryID *string, victims []Image) (DeleteResult, error) {
	var result DeleteResult

	ids := make([]types.ImageIdentifier, 0, len(victims))
	for _, img := range victims {
		if img.Digest == nil || *img.Digest == "" {
			result.Failures = append(result.Failures, DeleteFailure{
				Code:   missingDigestCode,
				Reason: "image has no digest",
			})
			continue
		}
		ids = append(ids, types.ImageIdentifier{ImageDigest: aws.String(*img.Digest)})
	}

	for start := 0; start < len(ids); start += MaxBatchDelete {
		end := start + MaxBatchDelete
		if end > len(ids) {
			end = len(ids)
		}

		out, err := api.BatchDeleteImage(ctx, &ecr.BatchDeleteImageInput{
			RepositoryName: aws.String(repository),
			RegistryId:     registryID,
			ImageIds:       ids[start:end],
		})
		if err != nil {
			return result, &RemoteError{Op: "delete images", Err: err}
		}

		mergeDeleteOutput(&result, out)
	}

	return result, nil
}

// mergeDeleteOutput records each deleted digest once; ECR may list a digest
// several times when it carried several tags.
func mergeDeleteOutput(result *DeleteResult, out *ecr.BatchDeleteImageOutput) {
	if out == nil {
		return
	}

	seen := make(map[string]struct{}, len(result.Deleted))
	for _, d := range result.Deleted {
		seen[d] = struct{}{}
	}

	for _, id := range out.ImageIds {
		if id.ImageDigest == nil {
			continue
		}
		if _, ok := seen[*id.ImageDigest]; ok {
			continue
		}
		seen[*id.ImageDigest] = struct{}{}
		result.Deleted = append(result.Deleted, *id.ImageDigest)
	}

	for _, f := range out.Failures {
		result.Failures = append(result.Failures, DeleteFailure{
			Digest: imageIDString(f.ImageId),
			Code:   string(f.FailureCode),
			Reason: aws.ToString(f.FailureReason),
		})
	}
}

// imageIDString creates a string representation of an ImageIdentifier
func imageIDString(id *types.ImageIdentifier) string {
	if id == nil {
		return "unknown"
	}
	if id.ImageDigest != nil {
		return *id.ImageDigest
	}
	if id.ImageTag != nil {
		return *id.ImageTag
	}
	return "unknown"
}
