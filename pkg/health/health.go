package health

import (
	"net/http"

	"growpreen/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("health", fx.Provide(ProvideHealth))

type Dependency struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Health struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Deps    []Dependency `json:"deps,omitempty"`
}

type HealthService interface {
	Liveness(c *gin.Context)
	Readiness(c *gin.Context)
}

type health struct {
	db    *gorm.DB
	redis *redis.Client
}

type HealthParams struct {
	fx.In
	Config *config.Config
	DB     *gorm.DB      `optional:"true"`
	Redis  *redis.Client `optional:"true"`
}

func ProvideHealth(p HealthParams) HealthService {
	h := &health{db: p.DB}
	if p.Config.Redis.Enable {
		h.redis = p.Redis
	}
	return h
}

func (h *health) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, &Health{Status: "healthy", Message: "OK"})
}

func (h *health) Readiness(c *gin.Context) {
	out := &Health{Status: "healthy", Message: "OK"}
	code := http.StatusOK

	check := func(name string, ping func() error) {
		dep := Dependency{Name: name, Status: "healthy", Message: "OK"}
		if err := ping(); err != nil {
			dep.Status = "unhealthy"
			dep.Message = err.Error()
			out.Status = "unhealthy"
			out.Message = "dependency unavailable"
			code = http.StatusServiceUnavailable
		}
		out.Deps = append(out.Deps, dep)
	}

	if h.db != nil {
		check(h.db.Name(), func() error {
			sqlDB, err := h.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c.Request.Context())
		})
	}

	if h.redis != nil {
		check("redis", func() error {
			return h.redis.Ping(c.Request.Context()).Err()
		})
	}

	c.JSON(code, out)
}
