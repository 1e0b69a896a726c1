package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	houses := NewDomainGroup("housing", "/houses")
	houses.GET("/summary", func(c *gin.Context) {
		c.String(http.StatusOK, "summary")
	})

	NewRouter(engine, WithAPIVersion("v2")).Register(houses).Setup()

	w := do(engine, http.MethodGet, "/api/v2/houses/summary")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "summary", w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/api/v1/houses/summary").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("governance", "/governance")
		assert.Equal(t, "governance", g.Name())
		assert.Equal(t, "/governance", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("housing", "/houses").
			GET("", ok).
			POST("", ok).
			PUT("/:id", ok).
			DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/houses"},
			{http.MethodPost, "/api/v1/houses"},
			{http.MethodPut, "/api/v1/houses/7"},
			{http.MethodDelete, "/api/v1/houses/7"},
		} {
			w := do(engine, tc.method, tc.path)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("group middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("governance", "/governance")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "governance")
			c.Next()
		})
		roles := g.Group("roles", "/roles/:role")
		roles.GET("/active", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("role"))
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := do(engine, http.MethodGet, "/api/v1/governance/roles/president/active")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "president", w.Body.String())
		assert.Equal(t, "governance", w.Header().Get("X-Group"))
	})
}
