package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
)

// Handler implements the API routes over the driving ports.
type Handler struct {
	ports   *Ports
	maxBody int64
}

// NewHandler creates a handler over validated ports. maxBody is only used
// in error messages; BodyLimit enforces it.
func NewHandler(ports *Ports, maxBody int64) *Handler {
	return &Handler{ports: ports, maxBody: maxBody}
}

type analyzeResponse struct {
	Success        bool   `json:"success"`
	Result         string `json:"result"`
	Display        string `json:"display"`
	FileName       string `json:"filename"`
	Method         string `json:"method"`
	Language       string `json:"language"`
	ReportID       int64  `json:"report_id,omitempty"`
	StorageWarning string `json:"storage_warning,omitempty"`
}

type textRequest struct {
	Text string `json:"text"`
}

type classificationJSON struct {
	Occurrence  string `json:"occurrence"`
	Severity    string `json:"severity"`
	Probability string `json:"probability"`
	Source      string `json:"source,omitempty"`
}

type classifyResponse struct {
	Success        bool               `json:"success"`
	Classification classificationJSON `json:"classification"`
}

type applyRequest struct {
	Text        string `json:"text"`
	Occurrence  string `json:"occurrence"`
	Severity    string `json:"severity"`
	Probability string `json:"probability"`
}

type applyResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

type similarRequest struct {
	Text          string `json:"text"`
	Limit         int    `json:"limit"`
	Rerank        *bool  `json:"rerank"`
	Language      string `json:"language"`
	ExcludeDocKey string `json:"exclude_doc_key"`
}

type matchJSON struct {
	Report      reportJSON `json:"report"`
	VectorScore float64    `json:"vector_score"`
	Confidence  float64    `json:"confidence"`
	Rationale   string     `json:"rationale,omitempty"`
	FinalScore  float64    `json:"final_score"`
}

type similarResponse struct {
	Matches []matchJSON `json:"matches"`
	Count   int         `json:"count"`
}

type reportJSON struct {
	ID           int64  `json:"id"`
	FileName     string `json:"file_name"`
	DocKey       string `json:"doc_key"`
	Method       string `json:"method"`
	Language     string `json:"language"`
	Severity     string `json:"severity,omitempty"`
	Summary      string `json:"summary,omitempty"`
	RootCause    string `json:"root_cause,omitempty"`
	ShortTerm    string `json:"short_term,omitempty"`
	LongTerm     string `json:"long_term,omitempty"`
	Version      int    `json:"version"`
	Searchable   bool   `json:"searchable"`
	CreatedAt    string `json:"created_at"`
	FullMarkdown string `json:"full_markdown,omitempty"`
}

type reportsResponse struct {
	Reports []reportJSON `json:"reports"`
	Count   int          `json:"count"`
}

type exportRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
	Source string `json:"source"`
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Analyze handles a multipart upload with fields file, method and language.
func (h *Handler) Analyze(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respondFault(c, h.tooLarge())
			return
		}
		respondFault(c, domain.ErrNoFile)
		return
	}
	if strings.TrimSpace(fh.Filename) == "" {
		respondFault(c, fmt.Errorf("%w: no file selected", domain.ErrNoFile))
		return
	}

	data, err := readUpload(fh)
	if err != nil {
		respondFault(c, fmt.Errorf("%w: %w", domain.ErrUnreadable, err))
		return
	}

	result, err := h.ports.Analysis.Analyze(c.Request.Context(), domain.NewSession(""), driving.AnalyzeRequest{
		Name:     filepath.Base(filepath.Clean(fh.Filename)),
		Data:     data,
		Method:   c.PostForm("method"),
		Language: c.PostForm("language"),
	})
	if err != nil {
		respondFault(c, err)
		return
	}

	resp := analyzeResponse{
		Success:        true,
		Result:         result.Body,
		Display:        result.Display,
		FileName:       result.FileName,
		Method:         result.Method,
		Language:       result.Language,
		StorageWarning: result.StorageWarning,
	}
	if result.Report != nil {
		resp.ReportID = result.Report.ID
	}
	c.JSON(http.StatusOK, resp)
}

// Classify proposes a classification for {text}.
func (h *Handler) Classify(c *gin.Context) {
	var req textRequest
	if !h.bind(c, &req) {
		return
	}

	cl, err := h.ports.Classification.Classify(c.Request.Context(), req.Text, domain.DefaultClassification())
	if err != nil {
		respondFault(c, err)
		return
	}

	c.JSON(http.StatusOK, classifyResponse{
		Success:        true,
		Classification: classificationJSON(cl),
	})
}

// ApplyClassification writes the chosen classification into {text}.
func (h *Handler) ApplyClassification(c *gin.Context) {
	var req applyRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.ports.Classification.Apply(req.Text, domain.Classification{
		Occurrence:  req.Occurrence,
		Severity:    req.Severity,
		Probability: req.Probability,
	})
	if err != nil {
		respondFault(c, err)
		return
	}

	c.JSON(http.StatusOK, applyResponse{Success: true, Result: out})
}

// Similar ranks stored reports against {text}. Reranking is on unless
// rerank is false.
func (h *Handler) Similar(c *gin.Context) {
	var req similarRequest
	if !h.bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondFault(c, fmt.Errorf("%w: no text provided", domain.ErrInvalidInput))
		return
	}

	rerank := req.Rerank == nil || *req.Rerank
	matches, err := h.ports.Similarity.SearchSimilar(c.Request.Context(), req.Text, domain.SimilarOptions{
		Limit:         req.Limit,
		ExcludeDocKey: req.ExcludeDocKey,
		Rerank:        rerank,
		Language:      req.Language,
	})
	if err != nil {
		respondFault(c, err)
		return
	}

	resp := similarResponse{Matches: make([]matchJSON, len(matches)), Count: len(matches)}
	for i, m := range matches {
		resp.Matches[i] = matchJSON{
			Report:      toReportJSON(m.Report, false),
			VectorScore: m.VectorScore,
			Confidence:  m.Confidence,
			Rationale:   m.Rationale,
			FinalScore:  m.FinalScore,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListReports returns the current report of every document.
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.ports.Reports.List(c.Request.Context())
	if err != nil {
		respondFault(c, err)
		return
	}

	resp := reportsResponse{Reports: make([]reportJSON, len(reports)), Count: len(reports)}
	for i, r := range reports {
		resp.Reports[i] = toReportJSON(r, false)
	}
	c.JSON(http.StatusOK, resp)
}

// GetReport returns one report including its markdown.
func (h *Handler) GetReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondFault(c, fmt.Errorf("%w: report id must be a positive integer", domain.ErrInvalidInput))
		return
	}

	r, err := h.ports.Reports.Get(c.Request.Context(), id)
	if err != nil {
		respondFault(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportJSON(r, true))
}

// Export renders {text} as {format} and returns it as an attachment.
func (h *Handler) Export(c *gin.Context) {
	var req exportRequest
	if !h.bind(c, &req) {
		return
	}

	var buf bytes.Buffer
	err := h.ports.Export.Export(c.Request.Context(), &buf, driving.ExportRequest{
		Markdown: req.Text,
		Format:   req.Format,
		Source:   req.Source,
	})
	if err != nil {
		respondFault(c, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="safety_report.%s"`, format))
	c.Data(http.StatusOK, h.ports.Export.ContentType(format), buf.Bytes())
}

// bind decodes a JSON body, writing the error response on failure.
func (h *Handler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		if isBodyTooLarge(err) {
			respondFault(c, h.tooLarge())
			return false
		}
		respondFault(c, fmt.Errorf("%w: malformed JSON body: %w", domain.ErrInvalidInput, err))
		return false
	}
	return true
}

func (h *Handler) tooLarge() error {
	return fmt.Errorf("%w: maximum size is %d MB", domain.ErrFileTooLarge, h.maxBody>>20)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

func toReportJSON(r *domain.Report, full bool) reportJSON {
	out := reportJSON{
		ID:         r.ID,
		FileName:   r.FileName,
		DocKey:     r.DocKey,
		Method:     r.Method,
		Language:   r.Language,
		Severity:   r.Severity,
		Summary:    r.Summary,
		RootCause:  r.RootCause,
		ShortTerm:  r.ShortTerm,
		LongTerm:   r.LongTerm,
		Version:    r.Version,
		Searchable: r.HasEmbedding(),
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if full {
		out.FullMarkdown = r.FullMarkdown
	}
	return out
}
