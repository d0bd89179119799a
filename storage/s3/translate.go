package s3

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	apperrors "github.com/objkit/objkit/errors"
)

// translate maps an AWS SDK error into the storage error taxonomy. It is
// the single place S3 error shapes are interpreted; callers upstream only
// ever see taxonomy errors.
func translate(op, key string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Unavailable(op, err)
	}

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return apperrors.NotFound(key).WithCause(err)
	}
	// HeadObject reports absence as types.NotFound instead of NoSuchKey.
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return apperrors.NotFound(key).WithCause(err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return apperrors.NotFound(key).WithCause(err)
		case "NoSuchBucket",
			"AccessDenied",
			"AllAccessDisabled",
			"InvalidAccessKeyId",
			"SignatureDoesNotMatch",
			"InvalidBucketName",
			"EntityTooLarge",
			"KeyTooLongError":
			return apperrors.Rejected(op, err)
		case "SlowDown", "ServiceUnavailable", "InternalError", "RequestTimeout":
			return apperrors.Unavailable(op, err)
		}
		// Client-side fault means the request was formed and refused;
		// anything else is treated as the backend being unreachable.
		if apiErr.ErrorFault() == smithy.FaultClient {
			return apperrors.Rejected(op, err)
		}
		return apperrors.Unavailable(op, err)
	}

	// No API error in the chain: connection refused, DNS failure, TLS
	// handshake, etc.
	return apperrors.Unavailable(op, err)
}
