package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"DigitBoard/internal/predict"
	"DigitBoard/internal/raster"
)

type stub struct {
	fx   fixtures
	fail bool
}

func newRouter(s *stub) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), requestLog())

	api := e.Group("/api")
	api.GET("/health", s.health)
	api.GET("/model-info", s.modelInfo)
	api.POST("/predict", s.predict)
	return e
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("request_id", c.GetHeader(predict.RequestIDHeader)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

func (s *stub) health(c *gin.Context) {
	c.JSON(http.StatusOK, s.fx.Health)
}

func (s *stub) modelInfo(c *gin.Context) {
	if !s.fx.Health.ModelLoaded {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Model not loaded"})
		return
	}
	c.JSON(http.StatusOK, s.fx.ModelInfo)
}

func (s *stub) predict(c *gin.Context) {
	if !s.fx.Health.ModelLoaded {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Model not loaded. Please train the model first."})
		return
	}

	var req predict.Request
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}
	snap, err := raster.ParseDataURL(req.Image)
	if err == nil {
		_, err = snap.Decode()
	}
	if err != nil {
		log.Err(err).Msg("decode image")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to process image"})
		return
	}

	if s.fail {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}
	c.JSON(http.StatusOK, s.fx.Prediction.result())
}
