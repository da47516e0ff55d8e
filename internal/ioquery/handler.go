package ioquery

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/region"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests of the query API.
type Handler struct {
	q        Querier
	registry *region.Registry
}

// NewHandler creates a new HTTP handler.
func NewHandler(q Querier, registry *region.Registry) *Handler {
	return &Handler{q: q, registry: registry}
}

type regionInfo struct {
	ID   string     `json:"id"`
	Area [4]float64 `json:"area"`
}

// GetRegions handles GET /api/regions.
func (h *Handler) GetRegions(c *gin.Context) {
	active := h.registry.Active()
	res := make([]regionInfo, len(active))
	for i, r := range active {
		res[i] = regionInfo{
			ID:   r.ID,
			Area: [4]float64{r.Area.North, r.Area.West, r.Area.South, r.Area.East},
		}
	}
	c.JSON(http.StatusOK, gin.H{"regions": res})
}

// GetHourly handles GET /api/hourly.
func (h *Handler) GetHourly(c *gin.Context) {
	h.series(c, partition.Hourly, time.RFC3339)
}

// GetDaily handles GET /api/daily.
func (h *Handler) GetDaily(c *gin.Context) {
	h.series(c, partition.Daily, time.DateOnly)
}

func (h *Handler) series(c *gin.Context, tier partition.Tier, layout string) {
	var regions []string
	for _, r := range c.QueryArray("region") {
		for _, id := range strings.Split(r, ",") {
			if id = strings.TrimSpace(id); id != "" {
				regions = append(regions, id)
			}
		}
	}
	if len(regions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region parameter is required"})
		return
	}
	for _, id := range regions {
		if _, ok := h.registry.Get(id); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown region %q", id)})
			return
		}
	}

	from, err := parseTime(c, "from", layout)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseTime(c, "to", layout)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to is before from"})
		return
	}

	res, err := h.q.Series(c.Request.Context(), tier, regions, from, to)
	if err != nil {
		slog.Error("Query failed", "tier", tier.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseTime(c *gin.Context, name, layout string) (time.Time, error) {
	s := c.Query(name)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s parameter is required", name)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s (expected %s): %v", name, layout, err)
	}
	return t.UTC(), nil
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
