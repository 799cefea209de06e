package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/troopledger/troop-api/docs"
	v1 "github.com/troopledger/troop-api/internal/api/handler/v1"
	"github.com/troopledger/troop-api/internal/api/middleware"
	"github.com/troopledger/troop-api/internal/config"
	"github.com/troopledger/troop-api/internal/repository"
	"github.com/troopledger/troop-api/internal/repository/dao"
	"github.com/troopledger/troop-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares(db)

	authHandler := s.initAuthHandler(db)
	attendanceHandler := s.initAttendanceHandler(db)
	honorHandler := s.initHonorHandler(db)
	badgeHandler := s.initBadgeHandler(db)
	pointsHandler := s.initPointsHandler(db)
	rulesHandler := s.initRulesHandler(db)
	s.MountHandlers(authHandler, attendanceHandler, honorHandler, badgeHandler, pointsHandler, rulesHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initRulesService(db *gorm.DB) *service.RulesService {
	orgDAO := dao.NewOrganizationDAO(db)
	repo := repository.NewOrganizationRepository(orgDAO)

	return service.NewRulesService(repo)
}

func (s *Server) initAttendanceHandler(db *gorm.DB) *v1.AttendanceHandler {
	attendanceDAO := dao.NewAttendanceDAO(db)
	repo := repository.NewAttendanceRepository(attendanceDAO)
	participants := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	svc := service.NewAttendanceService(repo, participants, s.initRulesService(db))
	handler := v1.NewAttendanceHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initHonorHandler(db *gorm.DB) *v1.HonorHandler {
	honorDAO := dao.NewHonorDAO(db)
	repo := repository.NewHonorRepository(honorDAO)
	participants := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	svc := service.NewHonorService(repo, participants, s.initRulesService(db))
	handler := v1.NewHonorHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initBadgeHandler(db *gorm.DB) *v1.BadgeHandler {
	badgeDAO := dao.NewBadgeDAO(db)
	repo := repository.NewBadgeRepository(badgeDAO)
	participants := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	svc := service.NewBadgeService(repo, participants, s.initRulesService(db))
	handler := v1.NewBadgeHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initPointsHandler(db *gorm.DB) *v1.PointsHandler {
	eventDAO := dao.NewPointEventDAO(db)
	repo := repository.NewLedgerRepository(eventDAO)
	groups := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	svc := service.NewLedgerService(repo, groups)
	handler := v1.NewPointsHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initRulesHandler(db *gorm.DB) *v1.RulesHandler {
	handler := v1.NewRulesHandler(s.initRulesService(db), s.initUserService(db))

	return handler
}

func (s *Server) MountMiddlewares(db *gorm.DB) {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))

	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))
	tenantSvc := service.NewTenantService(orgRepo, s.Config.Tenant.DefaultOrganizationID)
	s.Router.Use(middleware.ResolveTenant(tenantSvc, s.Config.Tenant.HeaderName))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, attendanceHandler *v1.AttendanceHandler, honorHandler *v1.HonorHandler, badgeHandler *v1.BadgeHandler, pointsHandler *v1.PointsHandler, rulesHandler *v1.RulesHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.POST("/attendance", attendanceHandler.HandleSetAttendance)
		authenticated.POST("/attendance/batch", attendanceHandler.HandleSetAttendanceBatch)

		authenticated.POST("/honors", honorHandler.HandleAwardHonor)
		authenticated.POST("/honors/batch", honorHandler.HandleAwardHonorBatch)

		authenticated.POST("/badges", badgeHandler.HandleSubmitBadge)
		authenticated.GET("/badges/pending", badgeHandler.HandleGetPendingBadges)
		authenticated.POST("/badges/:badgeID/approve", badgeHandler.HandleApproveBadge)
		authenticated.POST("/badges/:badgeID/reject", badgeHandler.HandleRejectBadge)

		authenticated.GET("/points/participants/:participantID", pointsHandler.HandleGetParticipantPoints)
		authenticated.GET("/points/groups/:groupID", pointsHandler.HandleGetGroupPoints)
		authenticated.POST("/points/groups/award", pointsHandler.HandleAwardGroupPoints)
		authenticated.GET("/points/leaderboard", pointsHandler.HandleGetLeaderboard)

		authenticated.GET("/organizations/rules", rulesHandler.HandleGetRules)
		authenticated.PUT("/organizations/rules", rulesHandler.HandleUpdateRules)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Troop Activity Ledger API"
	docs.SwaggerInfo.Description = "Multi-tenant activity tracking: attendance, honors, badges and the point ledger."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
