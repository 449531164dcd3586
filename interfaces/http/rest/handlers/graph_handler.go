package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"skillmap-backend/application/services"
	"skillmap-backend/application/views"
	domaincfg "skillmap-backend/domain/config"
	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/infrastructure/export"
	"skillmap-backend/pkg/common"
	pkgerrors "skillmap-backend/pkg/errors"
)

// GraphHandler handles graph HTTP requests
type GraphHandler struct {
	pipeline  *services.PipelineService
	domainCfg *domaincfg.DomainConfig
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(pipeline *services.PipelineService, domainCfg *domaincfg.DomainConfig, logger *zap.Logger) *GraphHandler {
	if domainCfg == nil {
		domainCfg = domaincfg.DefaultDomainConfig()
	}
	return &GraphHandler{
		pipeline:  pipeline,
		domainCfg: domainCfg,
		validate:  validator.New(),
		logger:    logger,
	}
}

// CreateGraphRequest is the body of a graph generation request
type CreateGraphRequest struct {
	Topic string `json:"topic" validate:"required,min=2,max=200"`
}

// GraphSummary is the list/detail representation of a stored graph
type GraphSummary struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	NodeCount int       `json:"node_count"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGraph runs the full generation pipeline for a topic
func (h *GraphHandler) CreateGraph(w http.ResponseWriter, r *http.Request) {
	var req CreateGraphRequest
	if err := common.ParseJSONBody(r, &req, 4096); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "topic must be between 2 and 200 characters")
		return
	}

	graph, err := h.pipeline.GenerateGraph(r.Context(), req.Topic)
	if err != nil {
		h.logger.Warn("Graph generation failed",
			zap.String("topic", req.Topic),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, summarize(graph))
}

// ListGraphs returns summaries of all stored graphs
func (h *GraphHandler) ListGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := h.pipeline.ListGraphs(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	summaries := make([]GraphSummary, 0, len(graphs))
	for _, graph := range graphs {
		summaries = append(summaries, summarize(graph))
	}
	common.RespondJSON(w, http.StatusOK, summaries)
}

// GetGraph returns one graph with its full node set
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	graph, ok := h.loadGraph(w, r)
	if !ok {
		return
	}

	type nodeDetail struct {
		ID          string   `json:"id"`
		Label       string   `json:"label"`
		Kind        string   `json:"kind"`
		Description string   `json:"description"`
		Content     string   `json:"content"`
		Refs        []string `json:"refs"`
	}

	nodes := make([]nodeDetail, 0, graph.NodeCount())
	for _, node := range graph.Nodes() {
		nodes = append(nodes, nodeDetail{
			ID:          node.ID(),
			Label:       node.Label(),
			Kind:        string(node.Kind()),
			Description: node.Description(),
			Content:     node.Content(),
			Refs:        node.OutboundRefs(),
		})
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"graph": summarize(graph),
		"nodes": nodes,
	})
}

// GetGraphView returns the derived render sets for visualization
func (h *GraphHandler) GetGraphView(w http.ResponseWriter, r *http.Request) {
	graph, ok := h.loadGraph(w, r)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, views.BuildView(graph, h.domainCfg))
}

// ExportGraph streams the graph as a zip of markdown notes
func (h *GraphHandler) ExportGraph(w http.ResponseWriter, r *http.Request) {
	graph, ok := h.loadGraph(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFilename(graph)))
	if err := export.WriteZip(w, graph); err != nil {
		// Headers are already gone; all that is left is logging.
		h.logger.Error("Graph export failed",
			zap.String("graphID", graph.ID().String()),
			zap.Error(err),
		)
	}
}

// DeleteGraph removes a stored graph
func (h *GraphHandler) DeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := aggregates.GraphID(chi.URLParam(r, "graphID"))
	if err := h.pipeline.DeleteGraph(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

func (h *GraphHandler) loadGraph(w http.ResponseWriter, r *http.Request) (*aggregates.SkillGraph, bool) {
	id := chi.URLParam(r, "graphID")
	if id == "" {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "graph id is required")
		return nil, false
	}

	graph, err := h.pipeline.GetGraph(r.Context(), aggregates.GraphID(id))
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "graph not found")
		} else {
			common.RespondAppError(w, err)
		}
		return nil, false
	}
	return graph, true
}

func summarize(graph *aggregates.SkillGraph) GraphSummary {
	return GraphSummary{
		ID:        graph.ID().String(),
		Topic:     graph.Topic(),
		NodeCount: graph.NodeCount(),
		CreatedAt: graph.CreatedAt(),
	}
}

func exportFilename(graph *aggregates.SkillGraph) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(graph.Topic()), " ", "-"))
	if slug == "" {
		slug = graph.ID().String()
	}
	return slug + ".zip"
}
