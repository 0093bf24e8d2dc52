package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/lovequiz/internal/handler/health"
	"github.com/playperu/lovequiz/internal/quiz"
)

type resultPath struct {
	ID        string `path:"id"`
	SessionID string `header:"X-Session-Id"`
}

type updateEmailInput struct {
	UpdateEmailRequest
	ID string `path:"id"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Love Quiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Scoring and archetype classification for the dating personality quiz.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/preview
	getPreview, _ := r.NewOperationContext(http.MethodGet, "/ws/preview")
	getPreview.SetSummary("Live progress preview")
	getPreview.SetDescription("Upgrades to a WebSocket. Each text message is an answer map; each reply is a progress preview.")
	getPreview.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getPreview)

	// POST /api/quiz/session
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/quiz/session")
	postSession.SetSummary("Create or resume session")
	postSession.SetDescription("Opens an anonymous quiz session bound to a device fingerprint, or resumes an existing one.")
	postSession.AddReqStructure(CreateSessionRequest{})
	postSession.AddRespStructure(CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postSession)

	// POST /api/quiz/complete
	postComplete, _ := r.NewOperationContext(http.MethodPost, "/api/quiz/complete")
	postComplete.SetSummary("Submit quiz")
	postComplete.SetDescription("Validates, scores and stores a finished quiz. Resubmitting the same answers returns the stored result.")
	postComplete.AddReqStructure(quiz.SubmitRequest{})
	postComplete.AddRespStructure(SubmitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postComplete)

	// POST /api/quiz/progress
	postProgress, _ := r.NewOperationContext(http.MethodPost, "/api/quiz/progress")
	postProgress.SetSummary("Preview progress")
	postProgress.SetDescription("Scores a partial answer map. The archetype is included once the quiz is complete.")
	postProgress.AddReqStructure(ProgressRequest{})
	postProgress.AddRespStructure(quiz.Progress{}, openapi.WithHTTPStatus(http.StatusOK))
	postProgress.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postProgress)

	// GET /api/quiz/result/{id}
	getResult, _ := r.NewOperationContext(http.MethodGet, "/api/quiz/result/{id}")
	getResult.SetSummary("Get result")
	getResult.SetDescription("Returns a stored result with its recomputed classification. Optional X-Session-Id enforces ownership.")
	getResult.AddReqStructure(resultPath{})
	getResult.AddRespStructure(ResultResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getResult.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	getResult.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getResult)

	// PUT /api/quiz/result/{id}/email
	putEmail, _ := r.NewOperationContext(http.MethodPut, "/api/quiz/result/{id}/email")
	putEmail.SetSummary("Attach email")
	putEmail.SetDescription("Stores an email address on a result owned by the session.")
	putEmail.AddReqStructure(updateEmailInput{})
	putEmail.AddRespStructure(UpdateEmailResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putEmail.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putEmail.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(putEmail)

	// POST /api/quiz/share
	postShare, _ := r.NewOperationContext(http.MethodPost, "/api/quiz/share")
	postShare.SetSummary("Share result")
	postShare.SetDescription("Returns the public link for a result.")
	postShare.AddReqStructure(ShareRequest{})
	postShare.AddRespStructure(ShareResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postShare.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postShare)

	// GET /api/archetypes
	listArchetypes, _ := r.NewOperationContext(http.MethodGet, "/api/archetypes")
	listArchetypes.SetSummary("List archetypes")
	listArchetypes.SetDescription("Returns the public part of all 16 archetypes.")
	listArchetypes.AddRespStructure([]quiz.ArchetypePublic{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listArchetypes)

	// GET /api/archetypes/grid
	getGrid, _ := r.NewOperationContext(http.MethodGet, "/api/archetypes/grid")
	getGrid.SetSummary("Archetype grid")
	getGrid.SetDescription("Returns the attachment x communication grid in tie-break priority order.")
	getGrid.AddRespStructure(GridResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getGrid)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
