package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAppError(t *testing.T) {
	err := NewAppError("CONFIG_ERROR", "bad value", ErrInvalidInput)
	assert.Equal(t, "CONFIG_ERROR: bad value: invalid input", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "X: plain", NewAppError("X", "plain", nil).Error())
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("get: %w", ErrNotFound), codes.NotFound},
		{NewValidator().Field("text", "", Required).Err(), codes.InvalidArgument},
		{NewAppError("V", "x", ErrInvalidInput), codes.InvalidArgument},
		{fmt.Errorf("tesseract: %w", ErrOCR), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
		{status.Error(codes.PermissionDenied, "no"), codes.PermissionDenied},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(ToStatus(tt.err)), tt.err.Error())
	}
	assert.NoError(t, ToStatus(nil))
}
