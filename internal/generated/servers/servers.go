// Package servers holds the transport models of openapi.yaml and binds its
// operations onto echo: header and path parameters are decoded with the
// oapi-codegen runtime before the ServerInterface method is called.
package servers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Defines values for ScanRequestScanType.
const (
	ScanRequestScanTypeProduction ScanRequestScanType = "production"
	ScanRequestScanTypeQuality    ScanRequestScanType = "quality"
	ScanRequestScanTypeWarehouse  ScanRequestScanType = "warehouse"
)

// Defines values for ScanRequestQualityStage.
const (
	ScanRequestQualityStageReceive ScanRequestQualityStage = "receive"
	ScanRequestQualityStageInspect ScanRequestQualityStage = "inspect"
	ScanRequestQualityStageConfirm ScanRequestQualityStage = "confirm"
)

// Defines values for ScanRequestQualityResult.
const (
	ScanRequestQualityResultQualified   ScanRequestQualityResult = "qualified"
	ScanRequestQualityResultUnqualified ScanRequestQualityResult = "unqualified"
)

// Defines values for ScanRequestDefectRemark.
const (
	ScanRequestDefectRemarkRepair ScanRequestDefectRemark = "repair"
	ScanRequestDefectRemarkScrap  ScanRequestDefectRemark = "scrap"
)

// Defines values for TemplateRequestTemplateType.
const (
	TemplateRequestTemplateTypeProcess  TemplateRequestTemplateType = "process"
	TemplateRequestTemplateTypeProgress TemplateRequestTemplateType = "progress"
)

// BundleRepaired defines model for BundleRepaired.
type BundleRepaired struct {
	ReleasedQuantity int    `json:"releasedQuantity"`
	ScanCode         string `json:"scanCode"`
	Status           string `json:"status"`
}

// BundleScan defines model for BundleScan.
type BundleScan struct {
	DefectRemark        string    `json:"defectRemark,omitempty"`
	Id                  string    `json:"id"`
	OperatorId          string    `json:"operatorId"`
	OperatorName        string    `json:"operatorName"`
	OrderNo             string    `json:"orderNo"`
	ProcessCode         string    `json:"processCode,omitempty"`
	ProcessName         string    `json:"processName"`
	QualifiedQuantity   int       `json:"qualifiedQuantity,omitempty"`
	QualityResult       string    `json:"qualityResult,omitempty"`
	QualityStage        string    `json:"qualityStage,omitempty"`
	Quantity            int       `json:"quantity"`
	ScanType            string    `json:"scanType"`
	ScannedAt           time.Time `json:"scannedAt"`
	UnqualifiedQuantity int       `json:"unqualifiedQuantity,omitempty"`
	Warehouse           string    `json:"warehouse,omitempty"`
}

// Error defines model for Error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// OrderProgress defines model for OrderProgress.
type OrderProgress struct {
	CompletedQuantity int             `json:"completedQuantity"`
	ComputedPercent   int             `json:"computedPercent"`
	CurrentStage      string          `json:"currentStage"`
	OrderNo           string          `json:"orderNo"`
	Progress          int             `json:"progress"`
	Quantity          int             `json:"quantity,omitempty"`
	Stages            []StageProgress `json:"stages"`
	Status            string          `json:"status"`
	StyleNo           string          `json:"styleNo,omitempty"`
	TemplateSource    string          `json:"templateSource,omitempty"`
	Version           int64           `json:"version"`
}

// ProgressWeights defines model for ProgressWeights.
type ProgressWeights struct {
	Stages          []StageWeight   `json:"stages"`
	StyleNo         string          `json:"styleNo"`
	TemplateId      string          `json:"templateId,omitempty"`
	TemplateSource  string          `json:"templateSource"`
	TemplateVersion int             `json:"templateVersion,omitempty"`
	TotalUnitPrice  decimal.Decimal `json:"totalUnitPrice"`
	TotalWeight     decimal.Decimal `json:"totalWeight"`
}

// ScanRequest defines model for ScanRequest.
type ScanRequest struct {
	Color               string                   `json:"color,omitempty"`
	DefectCategory      string                   `json:"defectCategory,omitempty"`
	DefectRemark        ScanRequestDefectRemark  `json:"defectRemark,omitempty"`
	OperatorId          string                   `json:"operatorId"`
	OperatorName        string                   `json:"operatorName"`
	OrderNo             string                   `json:"orderNo,omitempty"`
	ProcessName         string                   `json:"processName,omitempty"`
	QualityResult       ScanRequestQualityResult `json:"qualityResult,omitempty"`
	QualityStage        ScanRequestQualityStage  `json:"qualityStage,omitempty"`
	Quantity            int                      `json:"quantity"`
	Reassign            bool                     `json:"reassign,omitempty"`
	ScanCode            string                   `json:"scanCode,omitempty"`
	ScanType            ScanRequestScanType      `json:"scanType"`
	Size                string                   `json:"size,omitempty"`
	UnqualifiedQuantity int                      `json:"unqualifiedQuantity,omitempty"`
	Warehouse           string                   `json:"warehouse,omitempty"`
}

// ScanRequestDefectRemark defines model for ScanRequest.DefectRemark.
type ScanRequestDefectRemark string

// ScanRequestQualityResult defines model for ScanRequest.QualityResult.
type ScanRequestQualityResult string

// ScanRequestQualityStage defines model for ScanRequest.QualityStage.
type ScanRequestQualityStage string

// ScanRequestScanType defines model for ScanRequest.ScanType.
type ScanRequestScanType string

// ScanResponse defines model for ScanResponse.
type ScanResponse struct {
	Created      bool     `json:"created"`
	CurrentStage string   `json:"currentStage,omitempty"`
	Message      string   `json:"message"`
	ProcessName  string   `json:"processName,omitempty"`
	Progress     int      `json:"progress"`
	RecordId     string   `json:"recordId,omitempty"`
	Success      bool     `json:"success"`
	Warnings     []string `json:"warnings,omitempty"`
}

// StageProgress defines model for StageProgress.
type StageProgress struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Ratio    decimal.Decimal `json:"ratio"`
	Weight   decimal.Decimal `json:"weight"`
}

// StageWeight defines model for StageWeight.
type StageWeight struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Weight    decimal.Decimal `json:"weight"`
}

// TemplateLock defines model for TemplateLock.
type TemplateLock struct {
	Changed    bool   `json:"changed"`
	Locked     bool   `json:"locked"`
	TemplateId string `json:"templateId"`
}

// TemplateRequest defines model for TemplateRequest.
type TemplateRequest struct {
	Content      json.RawMessage             `json:"content"`
	Global       bool                        `json:"global,omitempty"`
	Name         string                      `json:"name,omitempty"`
	StyleNo      string                      `json:"styleNo,omitempty"`
	TemplateType TemplateRequestTemplateType `json:"templateType"`
}

// TemplateRequestTemplateType defines model for TemplateRequest.TemplateType.
type TemplateRequestTemplateType string

// TemplateSaved defines model for TemplateSaved.
type TemplateSaved struct {
	Created    bool   `json:"created"`
	TemplateId string `json:"templateId"`
	Version    int    `json:"version"`
}

// OrderNo defines model for OrderNo.
type OrderNo = string

// ScanCode defines model for ScanCode.
type ScanCode = string

// TemplateID defines model for TemplateID.
type TemplateID = openapi_types.UUID

// TenantID defines model for TenantID.
type TenantID = string

// TenantParams carries the X-Tenant-ID header every operation requires.
type TenantParams struct {
	XTenantID TenantID `json:"X-Tenant-ID"`
}

// Per-operation parameter objects.
type (
	SubmitScanParams              = TenantParams
	GetOrderProgressParams        = TenantParams
	RecomputeOrderProgressParams  = TenantParams
	GetStyleProgressWeightsParams = TenantParams
	SaveTemplateParams            = TenantParams
	LockTemplateParams            = TenantParams
	UnlockTemplateParams          = TenantParams
	MarkBundleRepairedParams      = TenantParams
	GetBundleScansParams          = TenantParams
)

// SubmitScanJSONRequestBody defines body for SubmitScan for application/json ContentType.
type SubmitScanJSONRequestBody = ScanRequest

// SaveTemplateJSONRequestBody defines body for SaveTemplate for application/json ContentType.
type SaveTemplateJSONRequestBody = TemplateRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/v1/bundles/{scanCode}/repaired)
	MarkBundleRepaired(ctx echo.Context, scanCode ScanCode, params MarkBundleRepairedParams) error
	// (GET /api/v1/bundles/{scanCode}/scans)
	GetBundleScans(ctx echo.Context, scanCode ScanCode, params GetBundleScansParams) error
	// (GET /api/v1/orders/{orderNo}/progress)
	GetOrderProgress(ctx echo.Context, orderNo OrderNo, params GetOrderProgressParams) error
	// (POST /api/v1/orders/{orderNo}/progress/recompute)
	RecomputeOrderProgress(ctx echo.Context, orderNo OrderNo, params RecomputeOrderProgressParams) error
	// (POST /api/v1/scans)
	SubmitScan(ctx echo.Context, params SubmitScanParams) error
	// (GET /api/v1/styles/{styleNo}/progress-weights)
	GetStyleProgressWeights(ctx echo.Context, styleNo string, params GetStyleProgressWeightsParams) error
	// (PUT /api/v1/templates)
	SaveTemplate(ctx echo.Context, params SaveTemplateParams) error
	// (POST /api/v1/templates/{templateId}/lock)
	LockTemplate(ctx echo.Context, templateId TemplateID, params LockTemplateParams) error
	// (POST /api/v1/templates/{templateId}/unlock)
	UnlockTemplate(ctx echo.Context, templateId TemplateID, params UnlockTemplateParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// MarkBundleRepaired converts echo context to params.
func (w *ServerInterfaceWrapper) MarkBundleRepaired(ctx echo.Context) error {
	var scanCode ScanCode
	if err := bindPath(ctx, "scanCode", &scanCode); err != nil {
		return err
	}
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.MarkBundleRepaired(ctx, scanCode, params)
}

// GetBundleScans converts echo context to params.
func (w *ServerInterfaceWrapper) GetBundleScans(ctx echo.Context) error {
	var scanCode ScanCode
	if err := bindPath(ctx, "scanCode", &scanCode); err != nil {
		return err
	}
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetBundleScans(ctx, scanCode, params)
}

// GetOrderProgress converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrderProgress(ctx echo.Context) error {
	var orderNo OrderNo
	if err := bindPath(ctx, "orderNo", &orderNo); err != nil {
		return err
	}
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrderProgress(ctx, orderNo, params)
}

// RecomputeOrderProgress converts echo context to params.
func (w *ServerInterfaceWrapper) RecomputeOrderProgress(ctx echo.Context) error {
	var orderNo OrderNo
	if err := bindPath(ctx, "orderNo", &orderNo); err != nil {
		return err
	}
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RecomputeOrderProgress(ctx, orderNo, params)
}

// SubmitScan converts echo context to params.
func (w *ServerInterfaceWrapper) SubmitScan(ctx echo.Context) error {
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SubmitScan(ctx, params)
}

// GetStyleProgressWeights converts echo context to params.
func (w *ServerInterfaceWrapper) GetStyleProgressWeights(ctx echo.Context) error {
	var styleNo string
	if err := bindPath(ctx, "styleNo", &styleNo); err != nil {
		return err
	}
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetStyleProgressWeights(ctx, styleNo, params)
}

// SaveTemplate converts echo context to params.
func (w *ServerInterfaceWrapper) SaveTemplate(ctx echo.Context) error {
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SaveTemplate(ctx, params)
}

// LockTemplate converts echo context to params.
func (w *ServerInterfaceWrapper) LockTemplate(ctx echo.Context) error {
	var templateID TemplateID
	if err := bindPath(ctx, "templateId", &templateID); err != nil {
		return err
	}
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.LockTemplate(ctx, templateID, params)
}

// UnlockTemplate converts echo context to params.
func (w *ServerInterfaceWrapper) UnlockTemplate(ctx echo.Context) error {
	var templateID TemplateID
	if err := bindPath(ctx, "templateId", &templateID); err != nil {
		return err
	}
	params, err := bindTenant(ctx)
	if err != nil {
		return err
	}
	return w.Handler.UnlockTemplate(ctx, templateID, params)
}

// bindPath decodes a simple-style path parameter. Escaped values such as
// Chinese order numbers are unescaped.
func bindPath(ctx echo.Context, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func bindTenant(ctx echo.Context) (TenantParams, error) {
	var params TenantParams

	valueList, found := ctx.Request().Header[http.CanonicalHeaderKey("X-Tenant-ID")]
	if !found {
		return params, echo.NewHTTPError(http.StatusBadRequest, "Header parameter X-Tenant-ID is required, but not found")
	}
	if n := len(valueList); n != 1 {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Expected one value for X-Tenant-ID, got %d", n))
	}

	err := runtime.BindStyledParameterWithOptions("simple", "X-Tenant-ID", valueList[0], &params.XTenantID,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationHeader,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter X-Tenant-ID: %s", err))
	}
	return params, nil
}

// EchoRouter is the route registration surface of *echo.Echo and *echo.Group.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/bundles/:scanCode/repaired", wrapper.MarkBundleRepaired)
	router.GET(baseURL+"/api/v1/bundles/:scanCode/scans", wrapper.GetBundleScans)
	router.GET(baseURL+"/api/v1/orders/:orderNo/progress", wrapper.GetOrderProgress)
	router.POST(baseURL+"/api/v1/orders/:orderNo/progress/recompute", wrapper.RecomputeOrderProgress)
	router.POST(baseURL+"/api/v1/scans", wrapper.SubmitScan)
	router.GET(baseURL+"/api/v1/styles/:styleNo/progress-weights", wrapper.GetStyleProgressWeights)
	router.PUT(baseURL+"/api/v1/templates", wrapper.SaveTemplate)
	router.POST(baseURL+"/api/v1/templates/:templateId/lock", wrapper.LockTemplate)
	router.POST(baseURL+"/api/v1/templates/:templateId/unlock", wrapper.UnlockTemplate)
}
