// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "github.com/shadowkingaftab/connect-hire/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/shadowkingaftab/connect-hire/internal/auth"
	"github.com/shadowkingaftab/connect-hire/internal/controller/application"
	"github.com/shadowkingaftab/connect-hire/internal/controller/catalog"
	"github.com/shadowkingaftab/connect-hire/internal/controller/file"
	"github.com/shadowkingaftab/connect-hire/internal/controller/jobpost"
	"github.com/shadowkingaftab/connect-hire/internal/ledger"
	"github.com/shadowkingaftab/connect-hire/internal/middleware"
	"github.com/shadowkingaftab/connect-hire/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)

	ledgerSvc := ledger.NewService(s.DB, s.Log)
	roleCtrl := auth.NewRoleHandler(ledgerSvc)
	jobCtrl := jobpost.NewJobPostController(s.DB)
	appCtrl := application.NewApplicationController(s.DB, ledgerSvc, s.Mailer, s.Storage)
	catalogCtrl := catalog.NewCatalogController(s.DB, s.Log)
	fileCtrl := file.NewFileController(s.DB, s.Storage, s.Log)

	r.Use(middleware.SafeHeader())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("google/seeker", gAuth.SeekerGoogleLoginHandler)
			authRoute.POST("google/employer", gAuth.EmployerGoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)

			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		// Public browse surface
		v1.GET("/domains", catalogCtrl.GetDomains)
		v1.GET("/domains/:id/companies", catalogCtrl.GetCompaniesByDomain)
		v1.GET("/companies/:id", catalogCtrl.GetCompanyByID)
		v1.GET("/companies/:id/jobs", catalogCtrl.GetCompanyJobs)

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			needAuth.POST("/auth/role", roleCtrl.ChooseRoleHandler)

			fileRoute := needAuth.Group("/files")
			{
				fileRoute.GET(":id", fileCtrl.GetFile)
				fileRoute.POST("resume",
					middleware.CheckRole(model.RoleJobSeeker),
					middleware.SizeLimit(10<<20),
					fileCtrl.UploadResume)
			}

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET("", jobCtrl.GetJobs)
				jobRoute.GET(":id", jobCtrl.GetJobByID)

				employerOnly := jobRoute.Group("")
				employerOnly.Use(middleware.CheckRole(model.RoleEmployer))
				employerOnly.POST("", jobCtrl.CreateJobHandler)
				employerOnly.PATCH(":id", jobCtrl.EditJob)
				employerOnly.DELETE(":id", jobCtrl.DeleteJob)
				employerOnly.GET(":id/applications", appCtrl.ListForJob)
				employerOnly.POST(":id/shortlist/send", appCtrl.SendShortlist)
			}

			appRoute := needAuth.Group("/applications")
			{
				appRoute.POST("", middleware.CheckRole(model.RoleJobSeeker), appCtrl.ApplyHandler)
				appRoute.GET(":id", appCtrl.GetApplication)

				ownerOnly := appRoute.Group("")
				ownerOnly.Use(middleware.CheckRole(model.RoleEmployer))
				ownerOnly.PATCH(":id/status", appCtrl.UpdateStatus)
				ownerOnly.POST(":id/respond", appCtrl.Respond)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
