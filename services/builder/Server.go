package builder

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/kasflow/txbuilder/errors"
	"github.com/kasflow/txbuilder/model"
	"github.com/kasflow/txbuilder/services/indexer"
	"github.com/kasflow/txbuilder/services/telemetry"
	"github.com/kasflow/txbuilder/settings"
	"github.com/kasflow/txbuilder/ulogger"
	"github.com/kasflow/txbuilder/util/health"
	"github.com/kasflow/txbuilder/util/servicemanager"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the transaction builder over HTTP.
type Server struct {
	logger         ulogger.Logger
	settings       *settings.Settings
	e              *echo.Echo
	builder        ServiceI
	indexerClient  indexer.ClientI
	telemetryCache *telemetry.Cache
}

func New(logger ulogger.Logger, tSettings *settings.Settings) *Server {
	initPrometheusMetrics()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	return &Server{
		logger:   logger,
		settings: tSettings,
		e:        e,
	}
}

func (s *Server) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, "OK", nil
	}

	checks := make([]health.Check, 0, 1)

	if s.indexerClient != nil {
		checks = append(checks, health.Check{Name: "IndexerClient", Check: s.indexerClient.Health})
	}

	return health.CheckAll(ctx, checkLiveness, checks)
}

func (s *Server) Init(_ context.Context) error {
	var err error

	s.indexerClient, err = indexer.NewClient(s.logger, s.settings)
	if err != nil {
		return errors.NewServiceError("could not create indexer client", err)
	}

	s.telemetryCache = telemetry.NewCache(s.logger, s.settings)

	s.builder = NewBuilder(s.logger, s.settings, s.indexerClient, s.telemetryCache,
		model.NewConstructor(s.settings.Policy))

	build := s.e.Group("/v1")
	if token := s.settings.TxBuilder.AuthToken; token != "" {
		build.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			Validator: func(key string, _ echo.Context) (bool, error) {
				return subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
			},
		}))
	}

	build.POST("/transactions/build", s.buildHandler)

	s.e.GET("/health", s.healthHandler)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return nil
}

func (s *Server) Start(ctx context.Context) error {
	addr := s.settings.TxBuilder.HTTPListenAddress
	if addr == "" {
		return errors.NewConfigurationError("txbuilder_httpListenAddress is required")
	}

	mode := "HTTPS"
	if s.settings.SecurityLevelHTTP == 0 {
		mode = "HTTP"
	}

	s.logger.Infof("TxBuilder %s service listening on %s", mode, addr)

	go func() {
		<-ctx.Done()
		s.logger.Infof("[TxBuilder] %s service shutting down", mode)

		if err := s.e.Shutdown(context.Background()); err != nil {
			s.logger.Errorf("[TxBuilder] %s service shutdown error: %s", mode, err)
		}
	}()

	var err error

	if mode == "HTTP" {
		servicemanager.AddListenerInfo(fmt.Sprintf("TxBuilder HTTP listening on %s", addr))
		err = s.e.Start(addr)
	} else {
		certFile := s.settings.ServerCertFile
		if certFile == "" {
			return errors.NewConfigurationError("server_certFile is required for HTTPS")
		}

		keyFile := s.settings.ServerKeyFile
		if keyFile == "" {
			return errors.NewConfigurationError("server_keyFile is required for HTTPS")
		}

		servicemanager.AddListenerInfo(fmt.Sprintf("TxBuilder HTTPS listening on %s", addr))
		err = s.e.StartTLS(addr, certFile, keyFile)
	}

	if err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if b, ok := s.builder.(*Builder); ok && b != nil {
		b.Close()
	}

	return s.e.Shutdown(ctx)
}

type buildPayload struct {
	FromAddress  string                 `json:"fromAddress"`
	NetworkID    string                 `json:"networkId"`
	Outputs      []*model.PaymentOutput `json:"outputs"`
	Purpose      string                 `json:"purpose"`
	RequestedFee *int64                 `json:"requestedFeeInBaseUnit"`
	Telemetry    *telemetry.Snapshot    `json:"telemetry"`
}

type buildResponse struct {
	SerializedTransaction string             `json:"serializedTransaction"`
	Transaction           *model.Transaction `json:"transaction,omitempty"`
	Meta                  buildMeta          `json:"meta"`
}

type buildMeta struct {
	Mode                 string       `json:"mode"`
	InputsUsed           int          `json:"inputsUsed"`
	TotalInputsAvailable int          `json:"totalInputsAvailable"`
	FeeInBaseUnit        uint64       `json:"feeInBaseUnit"`
	TruncatedByCap       bool         `json:"truncatedByCap"`
	FallbackUsed         bool         `json:"fallbackUsed"`
	PolicyTrace          *PolicyTrace `json:"policyTrace"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) buildHandler(c echo.Context) error {
	var payload buildPayload

	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    errors.ERR_INVALID_REQUEST.String(),
			Message: "invalid request body",
		}})
	}

	req := &BuildRequest{
		FromAddress: payload.FromAddress,
		NetworkID:   payload.NetworkID,
		Outputs:     payload.Outputs,
		Purpose:     payload.Purpose,
		Telemetry:   payload.Telemetry,
	}

	// A negative fee hint is ignored rather than rejected.
	if payload.RequestedFee != nil && *payload.RequestedFee >= 0 {
		fee := uint64(*payload.RequestedFee)
		req.RequestedFee = &fee
	}

	result, err := s.builder.Build(c.Request().Context(), req)
	if err != nil {
		s.logger.Errorf("[TxBuilder] build for %s failed: %v", payload.FromAddress, err)

		return c.JSON(statusFor(err), errorResponse{Error: errorBody{
			Code:    errorCode(err),
			Message: errorMessage(err),
		}})
	}

	response := buildResponse{
		SerializedTransaction: result.SerializedTransaction,
		Meta: buildMeta{
			Mode:                 result.Trace.SelectionMode,
			InputsUsed:           result.InputsUsed,
			TotalInputsAvailable: result.TotalInputsAvailable,
			FeeInBaseUnit:        result.FeePaid,
			TruncatedByCap:       result.Trace.TruncatedByCap,
			FallbackUsed:         result.Trace.FallbackUsed,
			PolicyTrace:          result.Trace,
		},
	}

	if s.settings.TxBuilder.IncludeTxJSON {
		response.Transaction = result.Transaction
	}

	return c.JSON(http.StatusOK, response)
}

func (s *Server) healthHandler(c echo.Context) error {
	status, msg, err := s.Health(c.Request().Context(), false)
	if err != nil {
		s.logger.Warnf("[TxBuilder] health check failed: %v", err)
	}

	return c.String(status, msg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidRequest), errors.Is(err, errors.ErrNoSpendableOutputs):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrServiceError), errors.Is(err, errors.ErrNetworkTimeout), errors.Is(err, errors.ErrTelemetryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the top-level message without the wrapped cause, so
// internal details stay out of responses.
func errorMessage(err error) string {
	var terr *errors.Error
	if errors.As(err, &terr) {
		return terr.Message()
	}

	return "internal error"
}
