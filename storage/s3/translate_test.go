package s3

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	apperrors "github.com/objkit/objkit/errors"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Code
	}{
		{
			name: "no such key",
			err:  &types.NoSuchKey{},
			want: apperrors.CodeNotFound,
		},
		{
			name: "head not found",
			err:  &types.NotFound{},
			want: apperrors.CodeNotFound,
		},
		{
			name: "wrapped no such key",
			err:  fmt.Errorf("operation error S3: GetObject: %w", &types.NoSuchKey{}),
			want: apperrors.CodeNotFound,
		},
		{
			name: "access denied",
			err:  &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied", Fault: smithy.FaultClient},
			want: apperrors.CodeBackendRejected,
		},
		{
			name: "bad credentials",
			err:  &smithy.GenericAPIError{Code: "InvalidAccessKeyId", Message: "unknown key", Fault: smithy.FaultClient},
			want: apperrors.CodeBackendRejected,
		},
		{
			name: "missing bucket",
			err:  &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "no bucket", Fault: smithy.FaultClient},
			want: apperrors.CodeBackendRejected,
		},
		{
			name: "not found by code",
			err:  &smithy.GenericAPIError{Code: "NotFound", Message: "not found", Fault: smithy.FaultClient},
			want: apperrors.CodeNotFound,
		},
		{
			name: "throttled",
			err:  &smithy.GenericAPIError{Code: "SlowDown", Message: "slow down", Fault: smithy.FaultServer},
			want: apperrors.CodeBackendUnavailable,
		},
		{
			name: "server fault",
			err:  &smithy.GenericAPIError{Code: "InternalError", Message: "oops", Fault: smithy.FaultServer},
			want: apperrors.CodeBackendUnavailable,
		},
		{
			name: "unknown client fault",
			err:  &smithy.GenericAPIError{Code: "MalformedXML", Message: "bad body", Fault: smithy.FaultClient},
			want: apperrors.CodeBackendRejected,
		},
		{
			name: "context canceled",
			err:  context.Canceled,
			want: apperrors.CodeBackendUnavailable,
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("request: %w", context.DeadlineExceeded),
			want: apperrors.CodeBackendUnavailable,
		},
		{
			name: "plain transport error",
			err:  errors.New("dial tcp: connection refused"),
			want: apperrors.CodeBackendUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("get", "some/key", tt.err)
			e := apperrors.AsError(got)
			if e == nil {
				t.Fatalf("translate() = %v, want taxonomy error", got)
			}
			if e.Code != tt.want {
				t.Errorf("code = %s, want %s", e.Code, tt.want)
			}
			if !errors.Is(got, tt.err) && tt.err != context.Canceled {
				// The original error must stay reachable for debugging.
				t.Errorf("translate() lost the cause chain for %v", tt.err)
			}
		})
	}
}

func TestTranslate_Nil(t *testing.T) {
	if err := translate("get", "k", nil); err != nil {
		t.Errorf("translate(nil) = %v, want nil", err)
	}
}
