package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeInvalidStage, http.StatusBadRequest},
		{CodeProjectNotFound, http.StatusNotFound},
		{CodeWizardSessionNotFound, http.StatusNotFound},
		{CodeWizardSessionClosed, http.StatusConflict},
		{CodeWizardIncomplete, http.StatusConflict},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeDatabaseError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.code, "x").HTTPStatus)
		})
	}
}

func TestAsAppError_FindsWrappedError(t *testing.T) {
	err := fmt.Errorf("rollback failed: %w", ErrWizardIncomplete)

	require.True(t, IsAppError(err))
	appErr := AsAppError(err)
	assert.Equal(t, CodeWizardIncomplete, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

func TestAsAppError_WrapsPlainError(t *testing.T) {
	appErr := AsAppError(stderrors.New("boom"))

	assert.Equal(t, CodeUnknown, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Contains(t, appErr.Error(), "boom")
}

func TestWithDetail_DoesNotMutateSentinel(t *testing.T) {
	detailed := ErrInvalidStage.WithDetail("bogus_stage")

	assert.Equal(t, "bogus_stage", detailed.Detail)
	assert.Empty(t, ErrInvalidStage.Detail)
	assert.True(t, stderrors.Is(detailed, ErrInvalidStage))
}
