package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{name: "invalid credentials", err: apperrors.ErrInvalidCredentials, wantStatus: 401, wantCode: dto.ErrorCodeInvalidCredentials},
		{name: "account disabled", err: apperrors.ErrAccountDisabled, wantStatus: 401, wantCode: dto.ErrorCodeAccountDisabled},
		{name: "token expired", err: apperrors.ErrTokenExpired, wantStatus: 401, wantCode: dto.ErrorCodeExpiredToken},
		{name: "token revoked", err: apperrors.ErrTokenRevoked, wantStatus: 401, wantCode: dto.ErrorCodeInvalidToken},
		{name: "permission denied", err: apperrors.ErrPermissionDenied, wantStatus: 403, wantCode: dto.ErrorCodeForbidden},
		{name: "enquiry not found", err: apperrors.ErrEnquiryNotFound, wantStatus: 404, wantCode: dto.ErrorCodeResourceNotFound},
		{name: "fee not found", err: apperrors.ErrFeeNotFound, wantStatus: 404, wantCode: dto.ErrorCodeResourceNotFound},
		{name: "username taken", err: apperrors.ErrUsernameExists, wantStatus: 409, wantCode: dto.ErrorCodeResourceAlreadyExists},
		{name: "already admitted", err: apperrors.ErrEnquiryAlreadyAdmitted, wantStatus: 409, wantCode: dto.ErrorCodeResourceConflict},
		{name: "cancel after admit", err: apperrors.ErrEnquiryAdmitted, wantStatus: 409, wantCode: dto.ErrorCodeResourceConflict},
		{name: "role immutable", err: apperrors.ErrRoleImmutable, wantStatus: 400, wantCode: dto.ErrorCodeValidationFailed},
		{name: "invalid amount", err: apperrors.ErrInvalidAmount, wantStatus: 400, wantCode: dto.ErrorCodeValidationFailed},
		{name: "wrapped sentinel", err: errors.Join(errors.New("context"), apperrors.ErrStudentNotFound), wantStatus: 404, wantCode: dto.ErrorCodeResourceNotFound},
		{name: "unknown error", err: errors.New("boom"), wantStatus: 500, wantCode: dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp dto.APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Error == nil {
				t.Fatal("response has no error detail")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", resp.Error.Code, tt.wantCode)
			}
		})
	}
}
