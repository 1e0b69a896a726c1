package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling labels used to slice continuous profiles
const (
	ProfilingLabelRoute  = "route"
	ProfilingLabelMethod = "method"
)

// Profiling runs the rest of the chain under pyroscope labels for the matched
// route and method. Unmatched paths are left unlabeled to bound cardinality.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := pyroscope.Labels(
			ProfilingLabelRoute, route,
			ProfilingLabelMethod, c.Request.Method,
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
