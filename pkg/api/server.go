// Package api provides the REST API server for marblereplay
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/marblereplay/pkg/loader"
	"github.com/james-see/marblereplay/pkg/machine"
	"github.com/james-see/marblereplay/pkg/render"
)

// @title MarbleReplay API
// @version 1.0
// @description API for reconstructing marble machine state from performance documents
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/machine", machineInfo)
		v1.POST("/replay/state", handleStateAt)
		v1.POST("/replay/deltas", handleDeltas)
		v1.POST("/replay/render", handleRender)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "marblereplay",
	})
}

// machineInfo godoc
// @Summary Describe the machine
// @Description Returns the wheel geometry and addressable channels
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/machine [get]
func machineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"wheelTicks":      machine.WheelTicks,
		"ticksPerQuarter": machine.TicksPerQuarter,
		"channels":        machine.Channels,
		"drumChannels":    machine.DrumChannels,
		"bassStrings":     machine.NumBassStrings,
		"vibraphoneSlots": machine.VibraphoneSlots,
	})
}

// handleStateAt godoc
// @Summary Reconstruct machine state at a tick
// @Description Upload a performance document and receive the state at the target tick
// @Tags replay
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Performance document (JSON)"
// @Param tick query int true "Target tick"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/replay/state [post]
func handleStateAt(c *gin.Context) {
	perf, ok := uploadedPerformance(c)
	if !ok {
		return
	}
	tick, err := strconv.ParseInt(c.Query("tick"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tick query parameter must be an integer"})
		return
	}

	state, err := machine.StateAt(perf, tick)
	if err != nil {
		replayError(c, err)
		return
	}

	rotation, local := machine.ToLocal(tick)
	c.JSON(http.StatusOK, gin.H{
		"tick":      tick,
		"rotation":  rotation,
		"localTick": local,
		"state":     state,
	})
}

// handleDeltas godoc
// @Summary List state transitions over a tick range
// @Description Upload a performance document and receive every transition between from and to
// @Tags replay
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Performance document (JSON)"
// @Param from query int true "Range start tick"
// @Param to query int true "Range end tick"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/replay/deltas [post]
func handleDeltas(c *gin.Context) {
	perf, ok := uploadedPerformance(c)
	if !ok {
		return
	}
	from, err := strconv.ParseInt(c.Query("from"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from query parameter must be an integer"})
		return
	}
	to, err := strconv.ParseInt(c.Query("to"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to query parameter must be an integer"})
		return
	}

	deltas, err := machine.DeltasBetween(perf, from, to)
	if err != nil {
		replayError(c, err)
		return
	}

	out := make([]gin.H, 0, len(deltas))
	for _, d := range deltas {
		entry := gin.H{
			"tick":    d.Tick,
			"kind":    d.Event.Kind(),
			"changes": d.Changes,
		}
		if d.Fired != nil {
			entry["fired"] = gin.H{
				"channel": d.Fired.Drop.Channel(),
				"origin":  d.Fired.Origin,
			}
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "deltas": out})
}

// handleRender godoc
// @Summary Render a performance range to MIDI
// @Description Upload a performance document and receive a Standard MIDI File
// @Tags replay
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Performance document (JSON)"
// @Param from query int false "Range start tick (default 0)"
// @Param to query int false "Range end tick (default one wheel rotation)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/replay/render [post]
func handleRender(c *gin.Context) {
	perf, ok := uploadedPerformance(c)
	if !ok {
		return
	}
	from, err := strconv.ParseInt(c.DefaultQuery("from", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from query parameter must be an integer"})
		return
	}
	to, err := strconv.ParseInt(c.DefaultQuery("to", strconv.Itoa(machine.WheelTicks-1)), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to query parameter must be an integer"})
		return
	}

	data, err := render.New().RenderSMF(perf, from, to)
	if err != nil {
		replayError(c, err)
		return
	}

	name := perf.Meta.Name
	if name == "" {
		name = "performance"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.mid", name))
	c.Data(http.StatusOK, "audio/midi", data)
}

func uploadedPerformance(c *gin.Context) (*machine.Performance, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, false
	}

	perf, err := loader.ParsePerformance(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return perf, true
}

func replayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, machine.ErrUnsortedEventStream),
		errors.Is(err, machine.ErrConflictingReconciliation),
		errors.Is(err, machine.ErrOutOfRangeValue),
		errors.Is(err, machine.ErrTickOutOfBounds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
