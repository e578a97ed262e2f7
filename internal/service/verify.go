package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/thuso-software/veriface/internal/domain"
	"github.com/thuso-software/veriface/internal/match"
	"github.com/thuso-software/veriface/internal/provider"
	"github.com/thuso-software/veriface/internal/repository"
)

// Result messages exposed to callers. Kept stable: downstream kiosks key
// on the exact strings.
const (
	msgCompareMatch   = "Face match successful"
	msgCompareNoMatch = "Face does not match"

	msgIdentityAccepted    = "Faces match"
	msgBiometricMismatch   = "Captured image does not match the ID photo"
	msgDetailsMismatchOnly = "Details mismatch"
)

// PhotoLoader resolves an enrolled photo reference to image bytes.
type PhotoLoader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// VerifyService é o motor de decisão de verificação: comparação de duas
// imagens (modo compare) e verificação completa de identidade (modo
// identity), combinando match biométrico e conferência de dados.
type VerifyService struct {
	profiles      repository.ProfileRepositoryInterface
	verifications repository.VerificationRepositoryInterface
	extractor     provider.Extractor
	photos        PhotoLoader
	policy        match.Policy
	sem           *semaphore.Weighted
	logger        *slog.Logger
}

func NewVerifyService(
	profiles repository.ProfileRepositoryInterface,
	verifications repository.VerificationRepositoryInterface,
	extractor provider.Extractor,
	photos PhotoLoader,
	workers int,
	logger *slog.Logger,
) *VerifyService {
	if workers < 1 {
		workers = 1
	}
	return &VerifyService{
		profiles:      profiles,
		verifications: verifications,
		extractor:     extractor,
		photos:        photos,
		policy:        match.DefaultPolicy(),
		sem:           semaphore.NewWeighted(int64(workers)),
		logger:        logger,
	}
}

func (s *VerifyService) WithPolicy(policy match.Policy) *VerifyService {
	s.policy = policy
	return s
}

// Compare scores two images against each other without any profile lookup.
func (s *VerifyService) Compare(ctx context.Context, captured, idPhoto []byte) (*domain.Comparison, error) {
	start := time.Now()

	capturedEmb, err := s.extractEmbedding(ctx, captured, domain.ErrNoFaceInCaptured)
	if err != nil {
		return nil, err
	}

	referenceEmb, err := s.extractEmbedding(ctx, idPhoto, domain.ErrNoFaceInIDPhoto)
	if err != nil {
		return nil, err
	}

	score := match.Score(capturedEmb, referenceEmb)
	matched := s.policy.IsMatch(score)

	comparison := &domain.Comparison{
		Score:   score,
		Match:   matched,
		Message: msgCompareNoMatch,
	}
	if matched {
		comparison.Message = msgCompareMatch
	}

	s.audit(ctx, &domain.Verification{
		Mode:           domain.ModeCompare,
		Score:          score,
		BiometricMatch: matched,
		LatencyMs:      time.Since(start).Milliseconds(),
	})

	return comparison, nil
}

// VerifyIdentity runs the full pipeline: profile lookup, demographic detail
// comparison and biometric match against the enrolled photo.
//
// Detail comparison always completes before the biometric branch. When face
// extraction fails afterwards, the partial result is returned alongside the
// error so callers still learn the detail outcome.
func (s *VerifyService) VerifyIdentity(ctx context.Context, captured []byte, idNumber string, claimed domain.ClaimedDetails) (*domain.IdentityVerification, error) {
	start := time.Now()

	if err := validateIdentityInput(captured, idNumber, claimed); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByIDNumber(ctx, idNumber)
	if err != nil {
		return nil, err
	}

	mismatches := domain.CompareDetails(claimed, profile)
	result := &domain.IdentityVerification{
		Mismatches:   mismatches,
		DetailsMatch: mismatches.DetailsMatch(),
	}

	capturedEmb, err := s.extractEmbedding(ctx, captured, domain.ErrNoFaceInCaptured)
	if err != nil {
		return result, err
	}

	enrolledEmb, err := s.enrolledEmbedding(ctx, profile, len(capturedEmb))
	if err != nil {
		return result, err
	}

	result.Score = match.Score(capturedEmb, enrolledEmb)
	result.BiometricMatch = s.policy.IsMatch(result.Score)
	result.Accepted = result.BiometricMatch && result.DetailsMatch

	switch {
	case result.Accepted:
		result.Message = msgIdentityAccepted
	case !result.BiometricMatch:
		result.Message = msgBiometricMismatch
	default:
		result.Message = msgDetailsMismatchOnly
	}

	detailsMatch := result.DetailsMatch
	s.audit(ctx, &domain.Verification{
		Mode:           domain.ModeIdentity,
		IDNumber:       idNumber,
		Score:          result.Score,
		BiometricMatch: result.BiometricMatch,
		DetailsMatch:   &detailsMatch,
		LatencyMs:      time.Since(start).Milliseconds(),
	})

	return result, nil
}

func validateIdentityInput(captured []byte, idNumber string, claimed domain.ClaimedDetails) error {
	switch {
	case len(captured) == 0:
		return domain.NewMissingFieldError("captured_image")
	case domain.NormalizeField(idNumber) == "":
		return domain.NewMissingFieldError("id_number")
	case domain.NormalizeField(claimed.Surname) == "":
		return domain.NewMissingFieldError("surname")
	case domain.NormalizeField(claimed.Name) == "":
		return domain.NewMissingFieldError("name")
	case domain.NormalizeField(claimed.DateOfBirth) == "":
		return domain.NewMissingFieldError("date_of_birth")
	case domain.NormalizeField(claimed.ChiefCode) == "":
		return domain.NewMissingFieldError("chiefCode")
	}
	return nil
}

// enrolledEmbedding returns the embedding for the profile's enrolled photo,
// preferring the cached vector. A cached vector of the wrong dimension
// (extractor model changed since it was written) is ignored and recomputed.
// Fresh extractions are written back best-effort.
func (s *VerifyService) enrolledEmbedding(ctx context.Context, profile *domain.Profile, dim int) ([]float64, error) {
	if len(profile.Embedding) == dim {
		return profile.Embedding, nil
	}

	photo, err := s.photos.Load(ctx, profile.PhotoRef)
	if err != nil {
		return nil, err
	}

	embedding, err := s.extractEmbedding(ctx, photo, domain.ErrNoFaceInIDPhoto)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.SaveEmbedding(ctx, profile.IDNumber, embedding); err != nil {
		s.logger.Warn("embedding write-back failed",
			slog.String("id_number", profile.IDNumber),
			slog.String("error", err.Error()))
	}

	return embedding, nil
}

// extractEmbedding runs the extractor under the worker semaphore and
// returns the primary face's embedding. noFace is the error reported when
// the image has no detectable face.
func (s *VerifyService) extractEmbedding(ctx context.Context, image []byte, noFace *domain.AppError) ([]float64, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, mapContextError(err)
	}
	defer s.sem.Release(1)

	faces, err := s.extractor.ExtractFaces(ctx, image)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, mapContextError(ctxErr)
		}
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, domain.ErrExtractorUnavailable.WithError(fmt.Errorf("extract faces: %w", err))
	}

	if len(faces) == 0 {
		return nil, noFace
	}

	return provider.PrimaryFace(faces).Embedding, nil
}

func mapContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout.WithError(err)
	}
	return err
}

// audit records the verification outcome; failures are logged, never
// surfaced to the caller.
func (s *VerifyService) audit(ctx context.Context, v *domain.Verification) {
	if err := s.verifications.Create(ctx, v); err != nil {
		s.logger.Warn("verification audit insert failed", slog.String("error", err.Error()))
	}
}
