package handler

import (
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/attendance-register/api/swagger"
	"github.com/noah-isme/attendance-register/internal/middleware"
	"github.com/noah-isme/attendance-register/internal/service"
	"github.com/noah-isme/attendance-register/pkg/config"
	"github.com/noah-isme/attendance-register/pkg/logger"
	corsmiddleware "github.com/noah-isme/attendance-register/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/attendance-register/pkg/middleware/requestid"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	Env            string
	APIPrefix      string
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Templates      *template.Template
	Register       registerService
	Exports        exportService
	Ready          ReadinessCheck
}

// NewRouter wires middleware, the HTML pages, the JSON API and the
// operational endpoints onto a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))

	ops := NewMetricsHandler(cfg.Metrics, cfg.Ready)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
		pages := NewPageHandler(cfg.Register)
		r.GET("/", pages.Index)
		r.POST("/students", pages.AddStudent)
		r.POST("/attendance", pages.MarkAttendance)
		r.GET("/attendance/:id/edit", pages.EditAttendance)
		r.GET("/attendance/:id/delete", pages.ConfirmDelete)
		r.POST("/attendance/:id/delete", pages.DeleteAttendance)
	}

	students := NewStudentHandler(cfg.Register)
	attendance := NewAttendanceHandler(cfg.Register)
	register := NewRegisterHandler(cfg.Register)

	api := r.Group(prefix)
	api.GET("/students", students.List)
	api.POST("/students", students.Create)
	api.GET("/students/options", students.Options)
	api.GET("/classes/options", register.ClassOptions)
	api.GET("/attendance", attendance.List)
	api.POST("/attendance", attendance.Mark)
	api.GET("/attendance/:id/edit", attendance.Edit)
	api.DELETE("/attendance/:id", attendance.Delete)
	api.GET("/stats", register.Stats)
	api.GET("/messages/current", register.CurrentMessage)
	if cfg.Exports != nil {
		exports := NewExportHandler(cfg.Exports)
		api.GET("/exports/attendance", exports.Attendance)
	}

	return r
}
