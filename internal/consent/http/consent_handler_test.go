package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
	"github.com/allisson/piivault/internal/consent/http/dto"
	"github.com/allisson/piivault/internal/consent/usecase/mocks"
	"github.com/allisson/piivault/internal/httputil"
)

func setupTestConsentHandler(t *testing.T) (*ConsentHandler, *mocks.MockConsentUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockConsentUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConsentHandler(mockUseCase, logger), mockUseCase
}

func createTestContext(method, target string, body any, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	return c, w
}

func TestConsentHandler_SetHandler(t *testing.T) {
	subjectID := uuid.Must(uuid.NewV7())
	params := gin.Params{{Key: "id", Value: subjectID.String()}}

	t.Run("Success_Grant", func(t *testing.T) {
		handler, mockUseCase := setupTestConsentHandler(t)
		consent := &consentDomain.Consent{
			ID:        uuid.Must(uuid.NewV7()),
			SubjectID: subjectID,
			Purpose:   "marketing",
			Granted:   true,
			Timestamp: time.Now().UTC(),
		}
		mockUseCase.On("Grant", mock.Anything, "dpo", subjectID, "marketing").Return(consent, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/subjects/x/consents",
			map[string]any{"purpose": "marketing", "granted": true}, params)
		c.Request.Header.Set(httputil.ActorHeader, "dpo")
		handler.SetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ConsentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, consent.ID.String(), response.ID)
		assert.True(t, response.Granted)
	})

	t.Run("Success_Revoke", func(t *testing.T) {
		handler, mockUseCase := setupTestConsentHandler(t)
		consent := &consentDomain.Consent{ID: uuid.Must(uuid.NewV7()), SubjectID: subjectID, Purpose: "marketing"}
		mockUseCase.On("Revoke", mock.Anything, httputil.AnonymousActor, subjectID, "marketing").
			Return(consent, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/subjects/x/consents",
			map[string]any{"purpose": "marketing", "granted": false}, params)
		handler.SetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_RevokeUnknownPurpose", func(t *testing.T) {
		handler, mockUseCase := setupTestConsentHandler(t)
		mockUseCase.On("Revoke", mock.Anything, mock.Anything, subjectID, "marketing").
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/subjects/x/consents",
			map[string]any{"purpose": "marketing", "granted": false}, params)
		handler.SetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_MissingGranted", func(t *testing.T) {
		handler, _ := setupTestConsentHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/subjects/x/consents",
			map[string]any{"purpose": "marketing"}, params)
		handler.SetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidSubjectID", func(t *testing.T) {
		handler, _ := setupTestConsentHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/subjects/x/consents",
			map[string]any{"purpose": "marketing", "granted": true}, gin.Params{{Key: "id", Value: "nope"}})
		handler.SetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestConsentHandler_ListHandler(t *testing.T) {
	subjectID := uuid.Must(uuid.NewV7())
	handler, mockUseCase := setupTestConsentHandler(t)

	mockUseCase.On("List", mock.Anything, subjectID).Return([]*consentDomain.Consent{
		{ID: uuid.Must(uuid.NewV7()), SubjectID: subjectID, Purpose: "analytics", Granted: true},
		{ID: uuid.Must(uuid.NewV7()), SubjectID: subjectID, Purpose: "marketing"},
	}, nil).Once()

	c, w := createTestContext(http.MethodGet, "/v1/subjects/x/consents", nil,
		gin.Params{{Key: "id", Value: subjectID.String()}})
	handler.ListHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response dto.ListConsentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 2)
	assert.Equal(t, "analytics", response.Data[0].Purpose)
}

func TestConsentHandler_RevokeAllHandler(t *testing.T) {
	subjectID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestConsentHandler(t)
		mockUseCase.On("RevokeAll", mock.Anything, "dpo", subjectID).Return(int64(3), nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/subjects/x/consents/revoke-all", nil,
			gin.Params{{Key: "id", Value: subjectID.String()}})
		c.Request.Header.Set(httputil.ActorHeader, "dpo")
		handler.RevokeAllHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"revoked":3}`, w.Body.String())
	})

	t.Run("Error_UseCase", func(t *testing.T) {
		handler, mockUseCase := setupTestConsentHandler(t)
		mockUseCase.On("RevokeAll", mock.Anything, mock.Anything, subjectID).Return(int64(0), assert.AnError).Once()

		c, w := createTestContext(http.MethodPost, "/v1/subjects/x/consents/revoke-all", nil,
			gin.Params{{Key: "id", Value: subjectID.String()}})
		handler.RevokeAllHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestConsentHandler_GetHandler(t *testing.T) {
	id := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestConsentHandler(t)
		mockUseCase.On("GetByID", mock.Anything, id).
			Return(&consentDomain.Consent{ID: id, Purpose: "marketing", Granted: true}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/consents/x", nil, gin.Params{{Key: "id", Value: id.String()}})
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestConsentHandler(t)
		mockUseCase.On("GetByID", mock.Anything, id).Return(nil, consentDomain.ErrConsentNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/consents/x", nil, gin.Params{{Key: "id", Value: id.String()}})
		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
