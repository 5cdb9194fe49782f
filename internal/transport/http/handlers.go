package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"smartface-server-go/internal/app/services"
	"smartface-server-go/internal/domain/nlp"
	"smartface-server-go/internal/domain/skills/reminder"
	"smartface-server-go/internal/domain/skills/smarthome"
	"smartface-server-go/internal/domain/tts"
	"smartface-server-go/internal/platform/logging"
)

// API exposes the pipeline and skills over REST.
type API struct {
	pipeline   *services.Pipeline
	classifier *nlp.Classifier
	reminders  *reminder.Skill
	home       *smarthome.Controller
	history    *services.HistoryRecorder
	logger     *logging.Logger
	started    time.Time
}

func NewAPI(
	pipeline *services.Pipeline,
	classifier *nlp.Classifier,
	reminders *reminder.Skill,
	home *smarthome.Controller,
	history *services.HistoryRecorder,
	logger *logging.Logger,
) *API {
	return &API{
		pipeline:   pipeline,
		classifier: classifier,
		reminders:  reminders,
		home:       home,
		history:    history,
		logger:     logger,
		started:    time.Now(),
	}
}

// Register mounts every endpoint on the API group.
func (a *API) Register(api *gin.RouterGroup) {
	api.GET("/health", a.health)
	api.POST("/process", a.process)
	api.POST("/synthesize", a.synthesize)

	api.GET("/reminders", a.listReminders)
	api.POST("/reminders", a.addReminder)
	api.POST("/reminders/:id/complete", a.completeReminder)
	api.DELETE("/reminders/:id", a.deleteReminder)
	// Collection-level delete clears completed reminders only.
	api.DELETE("/reminders", a.clearCompleted)

	api.GET("/intents", a.listIntents)
	api.POST("/intents/:intent/examples", a.addExamples)

	api.GET("/devices", a.listDevices)
	api.GET("/history", a.listHistory)
	api.GET("/system", a.systemInfo)
}

func (a *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(a.started).Seconds()),
		"exchanges":      a.pipeline.Exchanges(),
	})
}

type processRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"session_id"`
}

// process runs the text pipeline for clients without a microphone.
func (a *API) process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = a.pipeline.NewSessionID()
	}

	turn, err := a.pipeline.ProcessText(c.Request.Context(), sessionID, req.Text)
	if err != nil {
		a.logger.ErrorTag("HTTP", "process failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}
	c.JSON(http.StatusOK, turn)
}

func (a *API) listReminders(c *gin.Context) {
	rows, err := a.reminders.Active(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load reminders failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": rows})
}

type reminderRequest struct {
	Text string `json:"text" binding:"required"`
}

func (a *API) addReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	message, err := a.reminders.Add(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save reminder failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

func (a *API) completeReminder(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}
	message, err := a.reminders.Complete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update reminder failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (a *API) deleteReminder(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}
	message, err := a.reminders.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete reminder failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (a *API) clearCompleted(c *gin.Context) {
	message, err := a.reminders.ClearCompleted(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear reminders failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func reminderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reminder id"})
		return 0, false
	}
	return uint(id), true
}

func (a *API) listIntents(c *gin.Context) {
	catalog := a.classifier.Catalog()
	intents := make([]gin.H, 0, catalog.Len())
	for _, intent := range catalog.Intents() {
		intents = append(intents, gin.H{
			"intent":   intent,
			"examples": len(catalog.Examples(intent)),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"intents":   intents,
		"threshold": a.classifier.Threshold(),
	})
}

type examplesRequest struct {
	Examples []string `json:"examples" binding:"required"`
}

// addExamples extends the live catalog; new phrases affect classification
// immediately.
func (a *API) addExamples(c *gin.Context) {
	var req examplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "examples are required"})
		return
	}
	intent := nlp.Intent(c.Param("intent"))
	if err := a.classifier.AddExamples(c.Request.Context(), intent, req.Examples); err != nil {
		a.logger.ErrorTag("HTTP", "add examples failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "add examples failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"intent":   intent,
		"examples": len(a.classifier.Catalog().Examples(intent)),
	})
}

type synthesizeRequest struct {
	Text   string `json:"text" binding:"required"`
	Format string `json:"format"` // mp3 (default) | pcm
}

// synthesize turns text into speech. The pcm format decodes the MP3 stream
// for clients without their own decoder; the sample rate travels in a header.
func (a *API) synthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	speech, err := a.pipeline.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		a.logger.ErrorTag("HTTP", "synthesis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "synthesis failed"})
		return
	}
	if len(speech) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "speech synthesis is disabled"})
		return
	}

	if req.Format == "pcm" {
		pcm, sampleRate, err := tts.DecodePCM(speech)
		if err != nil {
			a.logger.ErrorTag("HTTP", "pcm decode failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "pcm decode failed"})
			return
		}
		c.Header("X-Sample-Rate", strconv.Itoa(sampleRate))
		c.Data(http.StatusOK, "audio/L16", pcm)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", speech)
}

func (a *API) listDevices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"devices": a.home.Devices()})
}

func (a *API) listHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := a.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": rows})
}

// systemInfo reports host resource usage for the status page.
func (a *API) systemInfo(c *gin.Context) {
	info := gin.H{
		"uptime_seconds": int(time.Since(a.started).Seconds()),
		"exchanges":      a.pipeline.Exchanges(),
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		info["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info["memory_percent"] = vm.UsedPercent
		info["memory_total"] = vm.Total
	}
	if h, err := host.Info(); err == nil {
		info["hostname"] = h.Hostname
		info["os"] = h.OS
		info["platform"] = h.Platform
	}
	c.JSON(http.StatusOK, info)
}
