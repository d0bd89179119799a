package minio

import (
	"context"
	"errors"
	"net/http"

	"github.com/minio/minio-go/v7"

	apperrors "github.com/objkit/objkit/errors"
)

// translate maps a MinIO client error into the storage error taxonomy.
func translate(op, key string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Unavailable(op, err)
	}

	resp := minio.ToErrorResponse(err)
	if resp.Code != "" {
		switch resp.Code {
		case "NoSuchKey":
			return apperrors.NotFound(key).WithCause(err)
		case "NoSuchBucket",
			"AccessDenied",
			"InvalidAccessKeyId",
			"SignatureDoesNotMatch",
			"EntityTooLarge",
			"XMinioInvalidObjectName":
			return apperrors.Rejected(op, err)
		case "SlowDown", "InternalError":
			return apperrors.Unavailable(op, err)
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return apperrors.NotFound(key).WithCause(err)
		case http.StatusForbidden, http.StatusBadRequest:
			return apperrors.Rejected(op, err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return apperrors.Unavailable(op, err)
		}
		return apperrors.Rejected(op, err)
	}

	// No ErrorResponse in the chain means the request never got a
	// well-formed answer from the server.
	return apperrors.Unavailable(op, err)
}
