package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thuso-software/veriface/internal/api/middleware"
	"github.com/thuso-software/veriface/internal/domain"
)

type MockVerifyService struct {
	mock.Mock
}

func (m *MockVerifyService) Compare(ctx context.Context, captured, idPhoto []byte) (*domain.Comparison, error) {
	args := m.Called(ctx, captured, idPhoto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comparison), args.Error(1)
}

func (m *MockVerifyService) VerifyIdentity(ctx context.Context, captured []byte, idNumber string, claimed domain.ClaimedDetails) (*domain.IdentityVerification, error) {
	args := m.Called(ctx, captured, idNumber, claimed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityVerification), args.Error(1)
}

type multipartForm struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartForm() *multipartForm {
	f := &multipartForm{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *multipartForm) addImage(t *testing.T, field, contentType string, data []byte) {
	t.Helper()
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, field+".jpg"))
	header.Set("Content-Type", contentType)
	part, err := f.writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
}

func (f *multipartForm) addField(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, f.writer.WriteField(name, value))
}

func (f *multipartForm) request(t *testing.T, path string) *http.Request {
	t.Helper()
	require.NoError(t, f.writer.Close())
	req := httptest.NewRequest("POST", path, &f.buf)
	req.Header.Set("Content-Type", f.writer.FormDataContentType())
	return req
}

func newTestApp(svc VerifyService) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})
	h := NewVerifyHandler(svc, 30*time.Second, logger)
	app.Post("/v1/verify/compare", h.Compare)
	app.Post("/v1/verify", h.Verify)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestVerifyHandler_Compare(t *testing.T) {
	svc := new(MockVerifyService)
	svc.On("Compare", mock.Anything, []byte("captured"), []byte("reference")).
		Return(&domain.Comparison{Score: 87.5, Match: true, Message: "Face match successful"}, nil)

	form := newMultipartForm()
	form.addImage(t, "captured_image", "image/jpeg", []byte("captured"))
	form.addImage(t, "id_photo", "image/png", []byte("reference"))

	resp, err := newTestApp(svc).Test(form.request(t, "/v1/verify/compare"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result CompareResponse
	decodeBody(t, resp, &result)
	assert.InDelta(t, 87.5, result.SimilarityScore, 0.0001)
	assert.True(t, result.Match)
	assert.Equal(t, "Face match successful", result.Result)
}

func TestVerifyHandler_CompareNoMatchStill200(t *testing.T) {
	svc := new(MockVerifyService)
	svc.On("Compare", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Comparison{Score: 12.3, Match: false, Message: "Face does not match"}, nil)

	form := newMultipartForm()
	form.addImage(t, "captured_image", "image/jpeg", []byte("a"))
	form.addImage(t, "id_photo", "image/jpeg", []byte("b"))

	resp, err := newTestApp(svc).Test(form.request(t, "/v1/verify/compare"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result CompareResponse
	decodeBody(t, resp, &result)
	assert.False(t, result.Match)
	assert.Equal(t, "Face does not match", result.Result)
}

func TestVerifyHandler_CompareMissingImage(t *testing.T) {
	svc := new(MockVerifyService)

	form := newMultipartForm()
	form.addImage(t, "captured_image", "image/jpeg", []byte("a"))

	resp, err := newTestApp(svc).Test(form.request(t, "/v1/verify/compare"))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyHandler_CompareRejectsBadContentType(t *testing.T) {
	svc := new(MockVerifyService)

	form := newMultipartForm()
	form.addImage(t, "captured_image", "text/plain", []byte("not an image"))
	form.addImage(t, "id_photo", "image/jpeg", []byte("b"))

	resp, err := newTestApp(svc).Test(form.request(t, "/v1/verify/compare"))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestVerifyHandler_CompareNoFace(t *testing.T) {
	svc := new(MockVerifyService)
	svc.On("Compare", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrNoFaceInCaptured)

	form := newMultipartForm()
	form.addImage(t, "captured_image", "image/jpeg", []byte("a"))
	form.addImage(t, "id_photo", "image/jpeg", []byte("b"))

	resp, err := newTestApp(svc).Test(form.request(t, "/v1/verify/compare"))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)

	var result struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, "NO_FACE_DETECTED", result.Error.Code)
	assert.Equal(t, "No face found in the captured image", result.Error.Message)
}

func identityForm(t *testing.T) *multipartForm {
	form := newMultipartForm()
	form.addImage(t, "captured_image", "image/jpeg", []byte("captured"))
	form.addField(t, "id_number", "9001015009087")
	form.addField(t, "surname", "Dlamini")
	form.addField(t, "name", "Thabo")
	form.addField(t, "date_of_birth", "1990-01-01")
	form.addField(t, "chiefCode", "CH-042")
	return form
}

func TestVerifyHandler_VerifyAccepted(t *testing.T) {
	svc := new(MockVerifyService)
	svc.On("VerifyIdentity", mock.Anything, []byte("captured"), "9001015009087", domain.ClaimedDetails{
		Surname: "Dlamini", Name: "Thabo", DateOfBirth: "1990-01-01", ChiefCode: "CH-042",
	}).Return(&domain.IdentityVerification{
		Score:          91.2,
		BiometricMatch: true,
		DetailsMatch:   true,
		Accepted:       true,
		Message:        "Faces match",
	}, nil)

	resp, err := newTestApp(svc).Test(identityForm(t).request(t, "/v1/verify"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result VerifyResponse
	decodeBody(t, resp, &result)
	assert.True(t, result.DetailsMatch)
	assert.False(t, result.SurnameMismatch)
	assert.Equal(t, "Faces match", result.Result)
	assert.InDelta(t, 91.2, result.SimilarityScore, 0.0001)
}

func TestVerifyHandler_VerifyRejectedStill200(t *testing.T) {
	svc := new(MockVerifyService)
	svc.On("VerifyIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.IdentityVerification{
			Score:          31.0,
			BiometricMatch: false,
			DetailsMatch:   false,
			Mismatches:     domain.Mismatches{DOB: true},
			Message:        "Captured image does not match the ID photo",
		}, nil)

	resp, err := newTestApp(svc).Test(identityForm(t).request(t, "/v1/verify"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result VerifyResponse
	decodeBody(t, resp, &result)
	assert.False(t, result.DetailsMatch)
	assert.True(t, result.DOBMismatch)
	assert.Equal(t, "Captured image does not match the ID photo", result.Result)
}

func TestVerifyHandler_VerifyProfileNotFound(t *testing.T) {
	svc := new(MockVerifyService)
	svc.On("VerifyIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrProfileNotFound)

	resp, err := newTestApp(svc).Test(identityForm(t).request(t, "/v1/verify"))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestVerifyHandler_VerifyPartialResultOnNoFace(t *testing.T) {
	svc := new(MockVerifyService)
	svc.On("VerifyIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.IdentityVerification{
			DetailsMatch: true,
		}, domain.ErrNoFaceInCaptured)

	resp, err := newTestApp(svc).Test(identityForm(t).request(t, "/v1/verify"))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)

	var result verifyErrorResponse
	decodeBody(t, resp, &result)
	assert.Equal(t, "No face found in the captured image", result.Error)
	assert.True(t, result.DetailsMatch)
	assert.False(t, result.SurnameMismatch)
	assert.False(t, result.NamesMismatch)
	assert.False(t, result.DOBMismatch)
	assert.False(t, result.ChiefCodeMismatch)
}

func TestVerifyHandler_VerifyMissingImage(t *testing.T) {
	svc := new(MockVerifyService)

	form := newMultipartForm()
	form.addField(t, "id_number", "9001015009087")

	resp, err := newTestApp(svc).Test(form.request(t, "/v1/verify"))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, "MISSING_FIELD", result.Error.Code)
}
