package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// CompareResponse documents the two-image comparison result.
type CompareResponse struct {
	SimilarityScore float64 `json:"similarity_score" example:"87.5"`
	Match           bool    `json:"match" example:"true"`
	Result          string  `json:"result" example:"Face match successful"`
}

// VerifyResponse documents the full identity verification result.
type VerifyResponse struct {
	SimilarityScore   float64 `json:"similarity_score" example:"91.2"`
	DetailsMatch      bool    `json:"detailsMatch" example:"true"`
	SurnameMismatch   bool    `json:"surnameMismatch" example:"false"`
	NamesMismatch     bool    `json:"namesMismatch" example:"false"`
	DOBMismatch       bool    `json:"dobMismatch" example:"false"`
	ChiefCodeMismatch bool    `json:"chiefCodeMismatch" example:"false"`
	Result            string  `json:"result" example:"Faces match"`
}

// VerifyErrorResponse documents the error variant that still carries the
// detail comparison outcome.
type VerifyErrorResponse struct {
	Error             string `json:"error" example:"No face found in the captured image"`
	DetailsMatch      bool   `json:"detailsMatch" example:"true"`
	SurnameMismatch   bool   `json:"surnameMismatch" example:"false"`
	NamesMismatch     bool   `json:"namesMismatch" example:"false"`
	DOBMismatch       bool   `json:"dobMismatch" example:"false"`
	ChiefCodeMismatch bool   `json:"chiefCodeMismatch" example:"false"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"MISSING_FIELD"`
	Message string `json:"message" example:"id_number is required"`
}

// HealthResponse documents the health endpoints.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Veriface Identity Verification API",
		Version:     "v1.0.0",
		Description: "Identity verification API combining face similarity scoring with demographic detail checks against enrolled profiles",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/verify/compare - Two-image face comparison
		endpoint.New(
			endpoint.POST,
			"/verify/compare",
			endpoint.WithTags("Verification"),
			endpoint.WithSummary("Compare two face images"),
			endpoint.WithDescription("Scores the captured image against a reference ID photo and reports match/no-match. No profile lookup is involved."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CompareResponse{}, "200", "Comparison completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "MISSING_FIELD", Message: "captured_image is required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face found in the captured image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "TIMEOUT", Message: "Verification timed out"}, "504", "Gateway Timeout"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/verify - Full identity verification
		endpoint.New(
			endpoint.POST,
			"/verify",
			endpoint.WithTags("Verification"),
			endpoint.WithSummary("Verify a claimed identity"),
			endpoint.WithDescription("Compares the captured image against the enrolled photo for the given id_number and checks the claimed surname, name, date_of_birth and chiefCode against the stored profile. A completed verification always returns 200; the result string carries the decision."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerifyResponse{}, "200", "Verification completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "MISSING_FIELD", Message: "id_number is required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "ID number not found in database"}, "404", "Not Found"),
				response.New(VerifyErrorResponse{Error: "No face found in the captured image"}, "422", "Unprocessable Entity"),
				response.New(VerifyErrorResponse{Error: "Failed to load the enrolled ID photo"}, "500", "Internal Server Error"),
				response.New(ErrorResponse{Code: "TIMEOUT", Message: "Verification timed out"}, "504", "Gateway Timeout"),
			}),
		),

		// GET /health - Liveness probe
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Process liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready - Readiness probe
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe including database connectivity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is ready"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "unavailable"}, "503", "Database unreachable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
