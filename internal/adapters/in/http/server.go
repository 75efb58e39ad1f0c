package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/commands"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/queries"
	"github.com/chenguojun06-star/fz66666-sub006/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Use case contracts the server dispatches to.
type (
	ScanSubmitter interface {
		Handle(ctx context.Context, command commands.SubmitScanCommand) (commands.SubmitScanResult, error)
	}

	ProgressRecomputer interface {
		Handle(ctx context.Context, command commands.RecomputeProgressCommand) (commands.RecomputeProgressResult, error)
	}

	TemplateSaver interface {
		Handle(ctx context.Context, command commands.SaveTemplateCommand) (commands.SaveTemplateResult, error)
	}

	TemplateLocker interface {
		Handle(ctx context.Context, command commands.TemplateLockCommand) (commands.TemplateLockResult, error)
	}

	BundleRepairer interface {
		Handle(ctx context.Context, command commands.MarkBundleRepairedCommand) (commands.MarkBundleRepairedResult, error)
	}

	OrderProgressReader interface {
		Handle(ctx context.Context, query queries.GetOrderProgressQuery) (queries.GetOrderProgressQueryResponse, error)
	}

	StyleWeightsReader interface {
		Handle(
			ctx context.Context,
			query queries.GetStyleProgressWeightsQuery,
		) (queries.GetStyleProgressWeightsQueryResponse, error)
	}

	BundleScansReader interface {
		Handle(ctx context.Context, query queries.GetBundleScansQuery) ([]queries.GetBundleScansQueryResponse, error)
	}
)

// Handlers groups the use cases behind the REST surface.
type Handlers struct {
	SubmitScan         ScanSubmitter
	RecomputeProgress  ProgressRecomputer
	SaveTemplate       TemplateSaver
	LockTemplate       TemplateLocker
	MarkBundleRepaired BundleRepairer
	OrderProgress      OrderProgressReader
	StyleWeights       StyleWeightsReader
	BundleScans        BundleScansReader
}

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface, translating HTTP requests into
// commands and queries.
type Server struct {
	h      Handlers
	logger *zap.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{h: h, logger: logger.With(zap.String("component", "http"))}
}

// SubmitScan handles POST /api/v1/scans.
func (s *Server) SubmitScan(c echo.Context, params servers.SubmitScanParams) error {
	var req servers.ScanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewSubmitScanCommand(commands.SubmitScanParams{
		TenantID:            tenantOf(params),
		ScanCode:            req.ScanCode,
		OrderNo:             req.OrderNo,
		Color:               req.Color,
		Size:                req.Size,
		ProcessName:         req.ProcessName,
		Quantity:            req.Quantity,
		ScanType:            string(req.ScanType),
		QualityStage:        string(req.QualityStage),
		QualityResult:       string(req.QualityResult),
		UnqualifiedQuantity: req.UnqualifiedQuantity,
		DefectCategory:      req.DefectCategory,
		DefectRemark:        string(req.DefectRemark),
		Warehouse:           req.Warehouse,
		OperatorID:          req.OperatorId,
		OperatorName:        req.OperatorName,
		Reassign:            req.Reassign,
	})
	if err != nil {
		return writeError(c, s.logger, err)
	}

	res, err := s.h.SubmitScan.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	return c.JSON(http.StatusOK, servers.ScanResponse{
		Success:      res.Success,
		Message:      res.Message,
		Progress:     res.Progress,
		CurrentStage: res.CurrentStage,
		RecordId:     res.RecordID,
		ProcessName:  res.ProcessName,
		Created:      res.Created,
		Warnings:     res.Warnings,
	})
}

// GetOrderProgress handles GET /api/v1/orders/{orderNo}/progress.
func (s *Server) GetOrderProgress(c echo.Context, orderNo servers.OrderNo, params servers.GetOrderProgressParams) error {
	query, err := queries.NewGetOrderProgressQuery(tenantOf(params), orderNo)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	view, err := s.h.OrderProgress.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	stages := make([]servers.StageProgress, 0, len(view.Stages))
	for _, st := range view.Stages {
		stages = append(stages, servers.StageProgress{
			Name: st.Name, Weight: st.Weight, Quantity: st.Quantity, Ratio: st.Ratio,
		})
	}

	return c.JSON(http.StatusOK, servers.OrderProgress{
		OrderNo:           view.OrderNo,
		StyleNo:           view.StyleNo,
		Status:            view.Status,
		Quantity:          view.Quantity,
		CompletedQuantity: view.CompletedQuantity,
		Progress:          view.Progress,
		CurrentStage:      view.CurrentStage,
		Version:           view.Version,
		ComputedPercent:   view.ComputedPercent,
		TemplateSource:    view.TemplateSource,
		Stages:            stages,
	})
}

// RecomputeOrderProgress handles POST /api/v1/orders/{orderNo}/progress/recompute.
func (s *Server) RecomputeOrderProgress(
	c echo.Context,
	orderNo servers.OrderNo,
	params servers.RecomputeOrderProgressParams,
) error {
	cmd, err := commands.NewRecomputeProgressCommand(tenantOf(params), orderNo)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	res, err := s.h.RecomputeProgress.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	return c.JSON(http.StatusOK, servers.OrderProgress{
		OrderNo:           res.OrderNo,
		Status:            string(res.Status),
		CompletedQuantity: res.CompletedQuantity,
		Progress:          res.Progress,
		CurrentStage:      res.CurrentStage,
		Version:           res.Version,
		ComputedPercent:   res.Breakdown.Percent,
		Stages:            breakdownStages(res.Breakdown),
	})
}

func breakdownStages(bd progress.Breakdown) []servers.StageProgress {
	stages := make([]servers.StageProgress, 0, len(bd.Stages))
	for _, st := range bd.Stages {
		stages = append(stages, servers.StageProgress{
			Name: st.Name, Weight: st.Weight, Quantity: st.Quantity, Ratio: st.Ratio,
		})
	}
	return stages
}

// GetStyleProgressWeights handles GET /api/v1/styles/{styleNo}/progress-weights.
func (s *Server) GetStyleProgressWeights(
	c echo.Context,
	styleNo string,
	params servers.GetStyleProgressWeightsParams,
) error {
	query, err := queries.NewGetStyleProgressWeightsQuery(tenantOf(params), styleNo)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	view, err := s.h.StyleWeights.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	stages := make([]servers.StageWeight, 0, len(view.Stages))
	for _, st := range view.Stages {
		stages = append(stages, servers.StageWeight{Name: st.Name, Weight: st.Weight, UnitPrice: st.UnitPrice})
	}

	return c.JSON(http.StatusOK, servers.ProgressWeights{
		StyleNo:         view.StyleNo,
		TemplateSource:  view.TemplateSource,
		TemplateId:      view.TemplateID,
		TemplateVersion: view.TemplateVersion,
		TotalWeight:     view.TotalWeight,
		TotalUnitPrice:  view.TotalUnitPrice,
		Stages:          stages,
	})
}

// SaveTemplate handles PUT /api/v1/templates.
func (s *Server) SaveTemplate(c echo.Context, params servers.SaveTemplateParams) error {
	var req servers.TemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewSaveTemplateCommand(commands.SaveTemplateParams{
		TenantID:     tenantOf(params),
		Global:       req.Global,
		TemplateType: string(req.TemplateType),
		StyleNo:      req.StyleNo,
		Name:         req.Name,
		Content:      req.Content,
	})
	if err != nil {
		return writeError(c, s.logger, err)
	}

	res, err := s.h.SaveTemplate.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	return c.JSON(http.StatusOK, servers.TemplateSaved{
		TemplateId: res.TemplateID,
		Version:    res.Version,
		Created:    res.Created,
	})
}

// LockTemplate handles POST /api/v1/templates/{templateId}/lock.
func (s *Server) LockTemplate(c echo.Context, templateID servers.TemplateID, params servers.LockTemplateParams) error {
	return s.changeLock(c, commands.NewLockTemplateCommand, templateID, params)
}

// UnlockTemplate handles POST /api/v1/templates/{templateId}/unlock.
func (s *Server) UnlockTemplate(c echo.Context, templateID servers.TemplateID, params servers.UnlockTemplateParams) error {
	return s.changeLock(c, commands.NewUnlockTemplateCommand, templateID, params)
}

func (s *Server) changeLock(
	c echo.Context,
	newCommand func(tenantID, templateID string) (commands.TemplateLockCommand, error),
	templateID servers.TemplateID,
	params servers.TenantParams,
) error {
	cmd, err := newCommand(tenantOf(params), templateID.String())
	if err != nil {
		return writeError(c, s.logger, err)
	}

	res, err := s.h.LockTemplate.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	return c.JSON(http.StatusOK, servers.TemplateLock{
		TemplateId: res.TemplateID,
		Locked:     res.Locked,
		Changed:    res.Changed,
	})
}

// MarkBundleRepaired handles POST /api/v1/bundles/{scanCode}/repaired.
func (s *Server) MarkBundleRepaired(
	c echo.Context,
	scanCode servers.ScanCode,
	params servers.MarkBundleRepairedParams,
) error {
	cmd, err := commands.NewMarkBundleRepairedCommand(tenantOf(params), scanCode)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	res, err := s.h.MarkBundleRepaired.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	return c.JSON(http.StatusOK, servers.BundleRepaired{
		ScanCode:         res.ScanCode,
		ReleasedQuantity: res.ReleasedQty,
		Status:           string(res.Status),
	})
}

// GetBundleScans handles GET /api/v1/bundles/{scanCode}/scans.
func (s *Server) GetBundleScans(c echo.Context, scanCode servers.ScanCode, params servers.GetBundleScansParams) error {
	query, err := queries.NewGetBundleScansQuery(tenantOf(params), scanCode)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	scans, err := s.h.BundleScans.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	response := make([]servers.BundleScan, len(scans))
	for i, sc := range scans {
		response[i] = servers.BundleScan{
			Id:                  sc.ID.String(),
			OrderNo:             sc.OrderNo,
			ScanType:            sc.ScanType,
			ProcessName:         sc.ProcessName,
			ProcessCode:         sc.ProcessCode,
			QualityStage:        sc.QualityStage,
			Quantity:            sc.Quantity,
			QualityResult:       sc.QualityResult,
			QualifiedQuantity:   sc.QualifiedQty,
			UnqualifiedQuantity: sc.UnqualifiedQty,
			DefectRemark:        sc.DefectRemark,
			Warehouse:           sc.Warehouse,
			OperatorId:          sc.OperatorID,
			OperatorName:        sc.OperatorName,
			ScannedAt:           sc.ScannedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

func tenantOf(params servers.TenantParams) string {
	return strings.TrimSpace(params.XTenantID)
}
