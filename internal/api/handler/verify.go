package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/thuso-software/veriface/internal/domain"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// VerifyService is the engine surface the handler depends on.
type VerifyService interface {
	Compare(ctx context.Context, captured, idPhoto []byte) (*domain.Comparison, error)
	VerifyIdentity(ctx context.Context, captured []byte, idNumber string, claimed domain.ClaimedDetails) (*domain.IdentityVerification, error)
}

type VerifyHandler struct {
	service VerifyService
	timeout time.Duration
	logger  *slog.Logger
}

func NewVerifyHandler(service VerifyService, timeout time.Duration, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{
		service: service,
		timeout: timeout,
		logger:  logger,
	}
}

// CompareResponse is the mode A wire shape.
type CompareResponse struct {
	SimilarityScore float64 `json:"similarity_score"`
	Match           bool    `json:"match"`
	Result          string  `json:"result"`
}

// VerifyResponse is the mode B wire shape. A completed verification is
// always a 200, accepted or not; the result string carries the decision.
type VerifyResponse struct {
	SimilarityScore   float64 `json:"similarity_score"`
	DetailsMatch      bool    `json:"detailsMatch"`
	SurnameMismatch   bool    `json:"surnameMismatch"`
	NamesMismatch     bool    `json:"namesMismatch"`
	DOBMismatch       bool    `json:"dobMismatch"`
	ChiefCodeMismatch bool    `json:"chiefCodeMismatch"`
	Result            string  `json:"result"`
}

// verifyErrorResponse is the mode B error variant. When the detail
// comparison completed before the failure, its outcome rides along.
type verifyErrorResponse struct {
	Error             string `json:"error"`
	DetailsMatch      bool   `json:"detailsMatch"`
	SurnameMismatch   bool   `json:"surnameMismatch"`
	NamesMismatch     bool   `json:"namesMismatch"`
	DOBMismatch       bool   `json:"dobMismatch"`
	ChiefCodeMismatch bool   `json:"chiefCodeMismatch"`
}

// Compare POST /v1/verify/compare - score two images against each other
func (h *VerifyHandler) Compare(c *fiber.Ctx) error {
	captured, err := extractAndValidateImage(c, "captured_image")
	if err != nil {
		return err
	}

	idPhoto, err := extractAndValidateImage(c, "id_photo")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	comparison, err := h.service.Compare(ctx, captured, idPhoto)
	if err != nil {
		return err
	}

	return c.JSON(CompareResponse{
		SimilarityScore: comparison.Score,
		Match:           comparison.Match,
		Result:          comparison.Message,
	})
}

// Verify POST /v1/verify - full identity verification against a profile
func (h *VerifyHandler) Verify(c *fiber.Ctx) error {
	captured, err := extractAndValidateImage(c, "captured_image")
	if err != nil {
		return err
	}

	idNumber := strings.TrimSpace(c.FormValue("id_number"))
	claimed := domain.ClaimedDetails{
		Surname:     c.FormValue("surname"),
		Name:        c.FormValue("name"),
		DateOfBirth: c.FormValue("date_of_birth"),
		ChiefCode:   c.FormValue("chiefCode"),
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	result, err := h.service.VerifyIdentity(ctx, captured, idNumber, claimed)
	if err != nil {
		if result == nil {
			return err
		}

		// the detail comparison finished before the biometric step
		// failed; callers still get its outcome
		var appErr *domain.AppError
		if !errors.As(err, &appErr) {
			appErr = domain.ErrInternal
		}
		if appErr.StatusCode >= 500 {
			h.logger.Error("verification failed after detail comparison",
				slog.String("code", appErr.Code),
				slog.Any("error", appErr.Err),
			)
		}

		return c.Status(appErr.StatusCode).JSON(verifyErrorResponse{
			Error:             appErr.Message,
			DetailsMatch:      result.DetailsMatch,
			SurnameMismatch:   result.Mismatches.Surname,
			NamesMismatch:     result.Mismatches.Names,
			DOBMismatch:       result.Mismatches.DOB,
			ChiefCodeMismatch: result.Mismatches.ChiefCode,
		})
	}

	return c.JSON(VerifyResponse{
		SimilarityScore:   result.Score,
		DetailsMatch:      result.DetailsMatch,
		SurnameMismatch:   result.Mismatches.Surname,
		NamesMismatch:     result.Mismatches.Names,
		DOBMismatch:       result.Mismatches.DOB,
		ChiefCodeMismatch: result.Mismatches.ChiefCode,
		Result:            result.Message,
	})
}

// extractAndValidateImage reads one multipart image field, enforcing size
// and content-type limits before any decoding happens.
func extractAndValidateImage(c *fiber.Ctx, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, domain.NewMissingFieldError(field)
	}

	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
