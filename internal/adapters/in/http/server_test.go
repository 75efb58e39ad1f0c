package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/chenguojun06-star/fz66666-sub006/internal/adapters/in/http"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/commands"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/usecases/queries"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/bundle"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/order"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports/portsfake"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTenant = "factory-1"

var fixedNow = time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)

type scanUoWs struct{ store *portsfake.Store }

func (f scanUoWs) Create() commands.ScanUoW { return f.store.Create() }

type progressUoWs struct{ store *portsfake.Store }

func (f progressUoWs) Create() commands.ProgressUoW { return f.store.Create() }

type trackingUoWs struct{ store *portsfake.Store }

func (f trackingUoWs) Create() commands.TrackingUoW { return f.store.Create() }

type templateUoWs struct{ store *portsfake.Store }

func (f templateUoWs) Create() commands.TemplateUoW { return f.store.Create() }

type bundleUoWs struct{ store *portsfake.Store }

func (f bundleUoWs) Create() commands.BundleUoW { return f.store.Create() }

type mockBundleScans struct {
	mock.Mock
}

func (m *mockBundleScans) Handle(
	ctx context.Context,
	query queries.GetBundleScansQuery,
) ([]queries.GetBundleScansQueryResponse, error) {
	args := m.Called(ctx, query)
	scans, _ := args.Get(0).([]queries.GetBundleScansQueryResponse)
	return scans, args.Error(1)
}

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Handle(ctx context.Context, command commands.SubmitScanCommand) (commands.SubmitScanResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.SubmitScanResult), args.Error(1)
}

type apiFixture struct {
	store       *portsfake.Store
	tenant      kernel.TenantID
	bundleScans *mockBundleScans
	e           *echo.Echo
}

func newAPIFixture(t *testing.T, override func(*httpadapter.Handlers)) *apiFixture {
	t.Helper()
	store := portsfake.NewStore()
	tenant, err := kernel.NewTenantID(testTenant)
	require.NoError(t, err)

	clock := ports.ClockFunc(func() time.Time { return fixedNow })
	resolver := progress.NewTemplateResolver(store.Create().TemplateRepository(), portsfake.NewCache(), nil)
	aggregator := progress.NewAggregator(resolver, clock, nil, progress.WithRetryInterval(time.Millisecond))
	ledger := commands.NewPayrollLedger(trackingUoWs{store})
	bundleScans := &mockBundleScans{}

	handlers := httpadapter.Handlers{
		SubmitScan:         commands.NewSubmitScanCommandHandler(scanUoWs{store}, aggregator, ledger, clock, nil),
		RecomputeProgress:  commands.NewRecomputeProgressCommandHandler(progressUoWs{store}, aggregator),
		SaveTemplate:       commands.NewSaveTemplateCommandHandler(templateUoWs{store}, resolver, clock),
		LockTemplate:       commands.NewTemplateLockCommandHandler(templateUoWs{store}, resolver, clock),
		MarkBundleRepaired: commands.NewMarkBundleRepairedCommandHandler(bundleUoWs{store}),
		OrderProgress:      queries.NewGetOrderProgressQueryHandler(store.Create(), aggregator),
		StyleWeights:       queries.NewGetStyleProgressWeightsQueryHandler(aggregator),
		BundleScans:        bundleScans,
	}
	if override != nil {
		override(&handlers)
	}

	doc, err := httpadapter.LoadOpenAPI()
	require.NoError(t, err)
	e, err := httpadapter.NewRouter(httpadapter.NewServer(handlers, nil), doc, nil)
	require.NoError(t, err)

	return &apiFixture{store: store, tenant: tenant, bundleScans: bundleScans, e: e}
}

func (f *apiFixture) seedOrderWithBundle(t *testing.T, orderNo, qrCode string, qty int) (*order.ProductionOrder, *bundle.CuttingBundle) {
	t.Helper()
	o, err := order.NewProductionOrder(kernel.NewUUID(), f.tenant, orderNo, "FZ001", qty)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().OrderRepository().Add(context.Background(), o))

	b, err := bundle.NewCuttingBundle(bundle.Spec{
		ID: kernel.NewUUID(), Tenant: f.tenant, OrderID: o.ID(), OrderNo: orderNo, StyleNo: "FZ001",
		BundleNo: 1, Color: "red", Size: "M", Quantity: qty, QRCode: qrCode,
	})
	require.NoError(t, err)
	require.NoError(t, f.store.Create().BundleRepository().Add(context.Background(), b))
	return o, b
}

func (f *apiFixture) do(t *testing.T, method, target, body string, withTenant bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if withTenant {
		req.Header.Set(httpadapter.TenantHeader, testTenant)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[errorBody](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, code, body.Code)
	assert.NotEmpty(t, body.Message)
	return body
}

func sewingScan(qrCode, operatorID string, qty int) string {
	return `{"scanCode":"` + qrCode + `","processName":"sewing","quantity":` + itoa(qty) +
		`,"scanType":"production","operatorId":"` + operatorID + `","operatorName":"worker"}`
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestServiceEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/openapi.yaml", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/scans:")

	rec = f.do(t, http.MethodGet, "/swagger/index.html", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitScan_AcceptedThenVisibleInProgress(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.seedOrderWithBundle(t, "PO-1", "QR-1", 50)

	rec := f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-1", "W-1", 50), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](t, rec)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, true, res["created"])
	assert.NotEmpty(t, res["recordId"])
	assert.Positive(t, res["progress"])

	rec = f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-1", "W-1", 50), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, rec)["created"], "identical rescan refreshes")

	rec = f.do(t, http.MethodGet, "/api/v1/orders/PO-1/progress", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[map[string]any](t, rec)
	assert.Equal(t, "production", view["status"])
	assert.Equal(t, res["progress"], view["progress"])
	assert.Equal(t, view["progress"], view["computedPercent"])
	assert.NotEmpty(t, view["stages"])

	rec = f.do(t, http.MethodPost, "/api/v1/orders/PO-1/progress/recompute", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, view["progress"], decode[map[string]any](t, rec)["progress"])
}

func TestSubmitScan_RejectionsMapToStatusCodes(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.seedOrderWithBundle(t, "PO-1", "QR-1", 50)
	rec := f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-1", "W-1", 20), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("missing tenant header", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-1", "W-1", 20), false)
		requireError(t, rec, http.StatusBadRequest, httpadapter.CodeValidationFailed)
	})

	t.Run("unknown scan type", func(t *testing.T) {
		body := `{"scanCode":"QR-1","quantity":1,"scanType":"packing","operatorId":"W-1","operatorName":"w"}`
		requireError(t, f.do(t, http.MethodPost, "/api/v1/scans", body, true),
			http.StatusBadRequest, httpadapter.CodeValidationFailed)
	})

	t.Run("no scan target", func(t *testing.T) {
		body := `{"quantity":1,"scanType":"production","operatorId":"W-1","operatorName":"w"}`
		requireError(t, f.do(t, http.MethodPost, "/api/v1/scans", body, true),
			http.StatusBadRequest, httpadapter.CodeValidationFailed)
	})

	t.Run("unknown bundle", func(t *testing.T) {
		requireError(t, f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-404", "W-1", 1), true),
			http.StatusNotFound, httpadapter.CodeNotFound)
	})

	t.Run("another operator holds the tuple", func(t *testing.T) {
		requireError(t, f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-1", "W-2", 20), true),
			http.StatusConflict, "OPERATOR_CONFLICT")
	})

	t.Run("cutting without a pattern file", func(t *testing.T) {
		body := `{"scanCode":"QR-1","processName":"裁剪","quantity":10,"scanType":"production",` +
			`"operatorId":"W-1","operatorName":"w"}`
		requireError(t, f.do(t, http.MethodPost, "/api/v1/scans", body, true),
			http.StatusUnprocessableEntity, "PATTERN_MISSING")
	})
}

func TestSubmitScan_RetryableAndInternalFailures(t *testing.T) {
	submitter := &mockSubmitter{}
	f := newAPIFixture(t, func(h *httpadapter.Handlers) { h.SubmitScan = submitter })

	submitter.On("Handle", mock.Anything, mock.Anything).
		Return(commands.SubmitScanResult{}, progress.ErrConcurrentUpdateExhausted.WithDetail("order PO-1")).Once()
	requireError(t, f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-1", "W-1", 1), true),
		http.StatusServiceUnavailable, "CONCURRENT_UPDATE_EXHAUSTED")

	submitter.On("Handle", mock.Anything, mock.Anything).
		Return(commands.SubmitScanResult{}, errors.New("connection reset by peer")).Once()
	body := requireError(t, f.do(t, http.MethodPost, "/api/v1/scans", sewingScan("QR-1", "W-1", 1), true),
		http.StatusInternalServerError, httpadapter.CodeInternal)
	assert.NotContains(t, body.Message, "connection reset")

	submitter.AssertExpectations(t)
}

func TestProgressEndpoints_NotFound(t *testing.T) {
	f := newAPIFixture(t, nil)

	requireError(t, f.do(t, http.MethodGet, "/api/v1/orders/PO-404/progress", "", true),
		http.StatusNotFound, httpadapter.CodeNotFound)
	requireError(t, f.do(t, http.MethodPost, "/api/v1/orders/PO-404/progress/recompute", "", true),
		http.StatusNotFound, httpadapter.CodeNotFound)
}

func TestUnknownRoute_RendersErrorBody(t *testing.T) {
	f := newAPIFixture(t, nil)

	body := requireError(t, f.do(t, http.MethodGet, "/api/v1/invoices", "", true),
		http.StatusNotFound, httpadapter.CodeNotFound)
	assert.Equal(t, "Not Found", body.Message)
}

func TestStyleProgressWeights(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/styles/FZ001/progress-weights", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decode[map[string]any](t, rec)
	assert.Equal(t, "none", view["templateSource"])
	assert.Equal(t, "100", view["totalWeight"])
	assert.Len(t, view["stages"], 4)
}

func TestTemplateEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)
	content := `{"templateType":"progress","styleNo":"FZ001","content":{"nodes":[{"name":"裁剪"},{"name":"车缝"}]}}`

	rec := f.do(t, http.MethodPut, "/api/v1/templates", content, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[map[string]any](t, rec)
	assert.Equal(t, true, saved["created"])
	assert.EqualValues(t, 1, saved["version"])
	id, _ := saved["templateId"].(string)
	require.NotEmpty(t, id)

	rec = f.do(t, http.MethodPost, "/api/v1/templates/"+id+"/lock", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	lock := decode[map[string]any](t, rec)
	assert.Equal(t, true, lock["locked"])
	assert.Equal(t, true, lock["changed"])

	requireError(t, f.do(t, http.MethodPut, "/api/v1/templates", content, true),
		http.StatusUnprocessableEntity, "TEMPLATE_LOCKED")

	rec = f.do(t, http.MethodPost, "/api/v1/templates/"+id+"/unlock", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, rec)["locked"])

	rec = f.do(t, http.MethodPut, "/api/v1/templates", content, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decode[map[string]any](t, rec)["version"])

	rec = f.do(t, http.MethodGet, "/api/v1/styles/FZ001/progress-weights", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "style_progress", decode[map[string]any](t, rec)["templateSource"])

	requireError(t, f.do(t, http.MethodPost, "/api/v1/templates/not-a-uuid/lock", "", true),
		http.StatusBadRequest, httpadapter.CodeValidationFailed)
	requireError(t, f.do(t, http.MethodPost, "/api/v1/templates/"+kernel.NewUUID().String()+"/lock", "", true),
		http.StatusNotFound, httpadapter.CodeNotFound)
	requireError(t, f.do(t, http.MethodPut, "/api/v1/templates", `{"templateType":"progress"}`, true),
		http.StatusBadRequest, httpadapter.CodeValidationFailed)
}

func TestBundleEndpoints(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.seedOrderWithBundle(t, "PO-1", "QR-1", 50)

	requireError(t, f.do(t, http.MethodPost, "/api/v1/bundles/QR-1/repaired", "", true),
		http.StatusUnprocessableEntity, "NOTHING_TO_REPAIR")
	requireError(t, f.do(t, http.MethodPost, "/api/v1/bundles/QR-404/repaired", "", true),
		http.StatusNotFound, httpadapter.CodeNotFound)

	scanID := kernel.NewUUID()
	f.bundleScans.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetBundleScansQuery) bool {
		return q.ScanCode() == "QR-1" && q.Tenant().String() == testTenant
	})).Return([]queries.GetBundleScansQueryResponse{{
		ID: scanID, OrderNo: "PO-1", ScanType: "production", ProcessName: "sewing",
		Quantity: 50, OperatorID: "W-1", OperatorName: "Li", ScannedAt: fixedNow,
	}}, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/v1/bundles/QR-1/scans", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	scans := decode[[]map[string]any](t, rec)
	require.Len(t, scans, 1)
	assert.Equal(t, scanID.String(), scans[0]["id"])
	assert.Equal(t, "2026-05-11T08:00:00Z", scans[0]["scannedAt"])
	f.bundleScans.AssertExpectations(t)
}
