package http

import (
	"net/http"

	"github.com/chenguojun06-star/fz66666-sub006/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// NewRouter builds the echo instance serving the REST surface, the API
// contract and its swagger UI.
func NewRouter(server *Server, doc *openapi3.T, logger *zap.Logger) (*echo.Echo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.HTTPErrorHandler = ErrorHandler(logger)

	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}

	e.Use(middleware.RequestID())
	e.Use(AccessLog(logger.With(zap.String("component", "http_access"))))
	e.Use(middleware.Recover())
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", OpenAPISpec())
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))

	servers.RegisterHandlers(e, server)

	return e, nil
}
