package devapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smolensk-traffic/portal/internal/models"
)

// Envelope selects how content responses are wrapped
type Envelope string

const (
	// EnvelopeWrapped answers {"<resource>": payload} everywhere
	EnvelopeWrapped Envelope = "enveloped"
	// EnvelopeBare answers the payload itself
	EnvelopeBare Envelope = "bare"
	// EnvelopeMixed varies the shape per resource
	EnvelopeMixed Envelope = "mixed"
)

// mixedBare lists the resources answered bare in EnvelopeMixed;
// statistics switches to the "statistics" key.
var mixedBare = map[string]bool{
	"team":     true,
	"services": true,
	"traffic":  true,
}

// wrap shapes a payload for the configured envelope mode
func (s *Server) wrap(key string, payload any) any {
	switch s.envelope {
	case EnvelopeBare:
		return payload
	case EnvelopeMixed:
		if mixedBare[key] {
			return payload
		}
		if key == "stats" {
			return gin.H{"statistics": payload}
		}
	}
	return gin.H{key: payload}
}

func listHandler[T any](s *Server, key, order string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := []T{}
		if err := s.db.Order(order).Find(&items).Error; err != nil {
			s.logger.Error().Err(err).Str("resource", key).Msg("Failed to list content")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get " + key})
			return
		}
		c.JSON(http.StatusOK, s.wrap(key, items))
	}
}

func (s *Server) getTraffic(c *gin.Context) {
	traffic, err := trafficSummary(s.db)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to aggregate traffic")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get traffic"})
		return
	}
	c.JSON(http.StatusOK, s.wrap("traffic", traffic))
}

func (s *Server) getStats(c *gin.Context) {
	var stats models.Statistics
	if err := s.db.Order("id DESC").First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, s.wrap("stats", nil))
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats"})
		return
	}
	c.JSON(http.StatusOK, s.wrap("stats", stats))
}
