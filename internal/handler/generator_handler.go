// internal/handler/generator_handler.go
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wavegen/internal/driver/wavegen"
	"wavegen/internal/model"
	"wavegen/internal/protocol"
	"wavegen/internal/repository"
	"wavegen/internal/service"
	"wavegen/internal/sink"
	"wavegen/internal/utils"
)

// GeneratorHandler exposes the generator service over HTTP
type GeneratorHandler struct {
	generatorService *service.GeneratorService
	logger           *utils.ServiceLogger
}

// NewGeneratorHandler creates a new generator handler
func NewGeneratorHandler(generatorService *service.GeneratorService, logger *zap.Logger) *GeneratorHandler {
	return &GeneratorHandler{
		generatorService: generatorService,
		logger:           utils.NewServiceLogger(logger, "generator-handler"),
	}
}

// Request bodies. Pointers make zero a valid, but still required, value.

type DebugRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type ContinuousConstFreqRequest struct {
	FreqKhz *uint32 `json:"freq_khz" binding:"required"`
}

type ContinuousFreqModRequest struct {
	LowFreqKhz  *uint32 `json:"low_freq_khz" binding:"required"`
	HighFreqKhz *uint32 `json:"high_freq_khz" binding:"required"`
	LengthUs    *uint32 `json:"length_us" binding:"required"`
}

type ContinuousPhaseModRequest struct {
	FreqKhz                *uint32 `json:"freq_khz" binding:"required"`
	BarkerSeqNum           *uint32 `json:"barker_seq_num" binding:"required"`
	BarkerSubpulseLengthUs *uint32 `json:"barker_subpulse_length_us" binding:"required"`
}

type PulsedConstFreqRequest struct {
	PeriodUs      *uint32 `json:"period_us" binding:"required"`
	PulseLengthUs *uint32 `json:"pulse_length_us" binding:"required"`
	FreqKhz       *uint32 `json:"freq_khz" binding:"required"`
}

type PulsedFreqModRequest struct {
	PeriodUs      *uint32 `json:"period_us" binding:"required"`
	PulseLengthUs *uint32 `json:"pulse_length_us" binding:"required"`
	LowFreqKhz    *uint32 `json:"low_freq_khz" binding:"required"`
	HighFreqKhz   *uint32 `json:"high_freq_khz" binding:"required"`
}

type PulsedPhaseModRequest struct {
	PeriodUs      *uint32 `json:"period_us" binding:"required"`
	PulseLengthUs *uint32 `json:"pulse_length_us" binding:"required"`
	FreqKhz       *uint32 `json:"freq_khz" binding:"required"`
	BarkerSeqNum  *uint32 `json:"barker_seq_num" binding:"required"`
}

// RegisterRoutes registers generator and capture routes
func (h *GeneratorHandler) RegisterRoutes(router *gin.RouterGroup) {
	generator := router.Group("/generator")
	{
		generator.GET("/config", h.GetConfig)
		generator.PUT("/config/debug", h.SetDebug)

		generator.PUT("/config/continuous/const-freq", h.SetContinuousConstFreq)
		generator.PUT("/config/continuous/freq-mod", h.SetContinuousFreqMod)
		generator.PUT("/config/continuous/phase-mod", h.SetContinuousPhaseMod)
		generator.PUT("/config/pulsed/const-freq", h.SetPulsedConstFreq)
		generator.PUT("/config/pulsed/freq-mod", h.SetPulsedFreqMod)
		generator.PUT("/config/pulsed/phase-mod", h.SetPulsedPhaseMod)

		generator.POST("/start", h.Start)
		generator.POST("/stop", h.Stop)
		generator.POST("/trigger", h.Trigger)
		generator.GET("/status", h.GetStatus)
	}

	captures := router.Group("/captures")
	{
		captures.GET("", h.ListCaptures)
		captures.GET("/:id", h.GetCapture)
		captures.GET("/:id/dump", h.DumpCapture)
	}
}

// GetConfig returns the pending configuration
// @Summary Get pending configuration
// @Description The configuration the next push will send. After a rejected push it still holds the rejected values.
// @Tags Generator
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Router /generator/config [get]
func (h *GeneratorHandler) GetConfig(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Pending configuration", h.generatorService.PendingConfig())
}

// SetDebug toggles debug capture without pushing
// @Summary Enable or disable debug capture
// @Description Updates the pending configuration only; the flag is sent with the next configuration push.
// @Tags Generator
// @Accept json
// @Produce json
// @Param request body DebugRequest true "Debug flag"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Failure 400 {object} utils.APIResponse
// @Router /generator/config/debug [put]
func (h *GeneratorHandler) SetDebug(c *gin.Context) {
	var req DebugRequest
	if !h.bind(c, &req) {
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Debug flag updated", h.generatorService.EnableDebug(*req.Enabled))
}

// SetContinuousConstFreq selects an unmodulated continuous carrier
// @Summary Continuous constant frequency
// @Description Device limit: freq_khz <= 20000. Limits are enforced by the device (422 BAD_CONFIG).
// @Tags Generator
// @Accept json
// @Produce json
// @Param request body ContinuousConstFreqRequest true "Waveform"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/config/continuous/const-freq [put]
func (h *GeneratorHandler) SetContinuousConstFreq(c *gin.Context) {
	var req ContinuousConstFreqRequest
	if !h.bind(c, &req) {
		return
	}
	h.configure(c, func(cfg *model.GeneratorConfig) {
		cfg.SetContinuousConstFreq(*req.FreqKhz)
	})
}

// SetContinuousFreqMod selects a continuous frequency sweep
// @Summary Continuous frequency modulation
// @Tags Generator
// @Accept json
// @Produce json
// @Param request body ContinuousFreqModRequest true "Waveform"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/config/continuous/freq-mod [put]
func (h *GeneratorHandler) SetContinuousFreqMod(c *gin.Context) {
	var req ContinuousFreqModRequest
	if !h.bind(c, &req) {
		return
	}
	h.configure(c, func(cfg *model.GeneratorConfig) {
		cfg.SetContinuousFreqMod(*req.LowFreqKhz, *req.HighFreqKhz, *req.LengthUs)
	})
}

// SetContinuousPhaseMod selects continuous Barker phase modulation
// @Summary Continuous phase modulation
// @Description barker_seq_num is one of 2, 3, 4, 5, 7, 11, 13.
// @Tags Generator
// @Accept json
// @Produce json
// @Param request body ContinuousPhaseModRequest true "Waveform"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/config/continuous/phase-mod [put]
func (h *GeneratorHandler) SetContinuousPhaseMod(c *gin.Context) {
	var req ContinuousPhaseModRequest
	if !h.bind(c, &req) {
		return
	}
	h.configure(c, func(cfg *model.GeneratorConfig) {
		cfg.SetContinuousPhaseMod(*req.FreqKhz, *req.BarkerSeqNum, *req.BarkerSubpulseLengthUs)
	})
}

// SetPulsedConstFreq selects pulsed constant frequency
// @Summary Pulsed constant frequency
// @Description Device limits: period_us <= 250, 5 <= pulse_length_us <= 200.
// @Tags Generator
// @Accept json
// @Produce json
// @Param request body PulsedConstFreqRequest true "Waveform"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/config/pulsed/const-freq [put]
func (h *GeneratorHandler) SetPulsedConstFreq(c *gin.Context) {
	var req PulsedConstFreqRequest
	if !h.bind(c, &req) {
		return
	}
	h.configure(c, func(cfg *model.GeneratorConfig) {
		cfg.SetPulsedConstFreq(*req.PeriodUs, *req.PulseLengthUs, *req.FreqKhz)
	})
}

// SetPulsedFreqMod selects a pulsed frequency sweep
// @Summary Pulsed frequency modulation
// @Tags Generator
// @Accept json
// @Produce json
// @Param request body PulsedFreqModRequest true "Waveform"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/config/pulsed/freq-mod [put]
func (h *GeneratorHandler) SetPulsedFreqMod(c *gin.Context) {
	var req PulsedFreqModRequest
	if !h.bind(c, &req) {
		return
	}
	h.configure(c, func(cfg *model.GeneratorConfig) {
		cfg.SetPulsedFreqMod(*req.PeriodUs, *req.PulseLengthUs, *req.LowFreqKhz, *req.HighFreqKhz)
	})
}

// SetPulsedPhaseMod selects pulsed Barker phase modulation
// @Summary Pulsed phase modulation
// @Tags Generator
// @Accept json
// @Produce json
// @Param request body PulsedPhaseModRequest true "Waveform"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorConfig}
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/config/pulsed/phase-mod [put]
func (h *GeneratorHandler) SetPulsedPhaseMod(c *gin.Context) {
	var req PulsedPhaseModRequest
	if !h.bind(c, &req) {
		return
	}
	h.configure(c, func(cfg *model.GeneratorConfig) {
		cfg.SetPulsedPhaseMod(*req.PeriodUs, *req.PulseLengthUs, *req.FreqKhz, *req.BarkerSeqNum)
	})
}

// Start starts generation
// @Summary Start generation
// @Tags Generator
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/start [post]
func (h *GeneratorHandler) Start(c *gin.Context) {
	if err := h.generatorService.Start(c.Request.Context()); err != nil {
		h.writeError(c, "Start failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Generator started", nil)
}

// Stop stops generation
// @Summary Stop generation
// @Tags Generator
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/stop [post]
func (h *GeneratorHandler) Stop(c *gin.Context) {
	if err := h.generatorService.Stop(c.Request.Context()); err != nil {
		h.writeError(c, "Stop failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Generator stopped", nil)
}

// Trigger runs a debug capture
// @Summary Trigger a debug capture
// @Description Returns the capture summary; the samples are served by /captures/{id}/dump.
// @Tags Generator
// @Produce json
// @Success 201 {object} utils.APIResponse{data=model.Capture}
// @Failure 422 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /generator/trigger [post]
func (h *GeneratorHandler) Trigger(c *gin.Context) {
	capture, err := h.generatorService.Trigger(c.Request.Context())
	if err != nil {
		h.writeError(c, "Trigger failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Capture completed", capture)
}

// GetStatus reports the connection and driver health
// @Summary Generator status
// @Tags Generator
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.GeneratorStatus}
// @Router /generator/status [get]
func (h *GeneratorHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Generator status", h.generatorService.Status())
}

// ListCaptures lists captures, newest first
// @Summary List captures
// @Tags Captures
// @Produce json
// @Param mode query string false "Filter by mode" Enums(CONTINUOUS, PULSED)
// @Param since query string false "RFC3339 lower bound on captured_at"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} utils.APIResponse{data=object{captures=[]model.Capture,total=int}}
// @Failure 400 {object} utils.APIResponse
// @Router /captures [get]
func (h *GeneratorHandler) ListCaptures(c *gin.Context) {
	filter := &model.CaptureFilter{Limit: 20}

	if mode := c.Query("mode"); mode != "" {
		m := model.Mode(mode)
		if m != model.ModeContinuous && m != model.ModePulsed {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid mode", nil)
			return
		}
		filter.Mode = &m
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid since", err)
			return
		}
		filter.Since = &t
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 && l <= 100 {
			filter.Limit = l
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	captures, total, err := h.generatorService.ListCaptures(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list captures", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list captures", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Captures retrieved", gin.H{
		"captures": captures,
		"total":    total,
	})
}

// GetCapture returns a capture summary
// @Summary Get capture
// @Tags Captures
// @Produce json
// @Param id path string true "Capture ID"
// @Success 200 {object} utils.APIResponse{data=model.Capture}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /captures/{id} [get]
func (h *GeneratorHandler) GetCapture(c *gin.Context) {
	capture, ok := h.lookupCapture(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Capture retrieved", capture)
}

// DumpCapture streams the valid samples of a capture as "i,q" lines
// @Summary Dump capture samples
// @Tags Captures
// @Produce plain
// @Param id path string true "Capture ID"
// @Success 200 {string} string "i,q lines"
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /captures/{id}/dump [get]
func (h *GeneratorHandler) DumpCapture(c *gin.Context) {
	capture, ok := h.lookupCapture(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=\""+capture.ID.String()+".txt\"")
	c.Status(http.StatusOK)

	if err := sink.NewDumpEncoder(c.Writer).Encode(capture.Samples); err != nil {
		h.logger.Error("Failed to stream capture dump",
			zap.String("capture_id", capture.ID.String()),
			zap.Error(err),
		)
	}
}

func (h *GeneratorHandler) lookupCapture(c *gin.Context) (*model.Capture, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid capture ID", err)
		return nil, false
	}

	capture, err := h.generatorService.GetCapture(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Capture not available", err)
		return nil, false
	}
	return capture, true
}

func (h *GeneratorHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			utils.ValidationErrorResponse(c, fields)
			return false
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func (h *GeneratorHandler) configure(c *gin.Context, apply func(cfg *model.GeneratorConfig)) {
	cfg, err := h.generatorService.Configure(c.Request.Context(), apply)
	if err != nil {
		h.writeError(c, "Configuration not applied", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Configuration applied", cfg)
}

// writeError maps service errors onto HTTP statuses: device rejections and
// undecodable replies are 422 with the error kind as code, transport
// failures are 503.
func (h *GeneratorHandler) writeError(c *gin.Context, message string, err error) {
	var pe *wavegen.ProtocolError
	switch {
	case errors.As(err, &pe):
		h.logger.Warn(message, zap.String("kind", string(pe.Kind)), zap.Error(err))
		utils.CodedErrorResponse(c, http.StatusUnprocessableEntity, string(pe.Kind), message, err)
	case errors.Is(err, repository.ErrCaptureNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, message, err)
	case errors.Is(err, service.ErrNotConnected), protocol.IsConnectionError(err):
		h.logger.Error(message, zap.Error(err))
		utils.ErrorResponse(c, http.StatusServiceUnavailable, message, err)
	default:
		h.logger.Error(message, zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
