package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
)

// JobHandler submits and inspects background extraction jobs. Source documents
// must lie under sourceRoot. Output roots must lie under outputRoot, or under
// sourceRoot when no output root is configured.
type JobHandler struct {
	jobUC      interfaces.JobUseCase
	sources    pathScope
	outputs    pathScope
	outputRoot string
}

// NewJobHandler creates a new JobHandler. Relative paths in requests are resolved
// against sourceRoot and outputRoot respectively.
func NewJobHandler(jobUC interfaces.JobUseCase, sourceRoot, outputRoot string) *JobHandler {
	outputs := pathScope{root: outputRoot}
	if outputRoot == "" {
		outputs.root = sourceRoot
	}

	return &JobHandler{
		jobUC:      jobUC,
		sources:    pathScope{root: sourceRoot},
		outputs:    outputs,
		outputRoot: outputRoot,
	}
}

type submitJobRequest struct {
	SourcePath string `json:"source_path"`
	OutputRoot string `json:"output_root"`
}

// Submit handles POST /api/v1/jobs
func (h *JobHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitJobRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid JSON payload", goerr.T(types.ErrTagInvalidInput)))
		return
	}

	if req.SourcePath == "" {
		writeError(w, r, goerr.New("source_path is required", goerr.T(types.ErrTagInvalidInput)))
		return
	}
	sourcePath, err := h.sources.resolve(req.SourcePath)
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "source_path is not allowed"))
		return
	}

	// Empty output root keeps the default: the configured root, else the source directory
	outputRoot := h.outputRoot
	if req.OutputRoot != "" {
		outputRoot, err = h.outputs.resolve(req.OutputRoot)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "output_root is not allowed"))
			return
		}
	}

	job, err := h.jobUC.Submit(r.Context(), &model.ExtractRequest{
		SourcePath: sourcePath,
		OutputRoot: outputRoot,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/jobs/"+job.ID.String())
	writeJSON(w, r, http.StatusAccepted, job)
}

// Get handles GET /api/v1/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseJobID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.jobUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, job)
}
