package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/campusbooks/marketplace-backend/internal/handler"
	appmw "github.com/campusbooks/marketplace-backend/internal/middleware"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	sha   string
	build string
}

func New(db *gorm.DB, log *zap.Logger, sha, buildTime string) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	tx := repository.NewTxManager(db)
	listingRepo := repository.NewListingRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)
	revenueRepo := repository.NewUserRevenueRepository(db)

	listingSvc := service.NewListingService(listingRepo, categoryRepo, offerRepo, orderRepo, tx, log)
	categorySvc := service.NewCategoryService(categoryRepo, listingRepo)
	offerSvc := service.NewOfferService(offerRepo, listingRepo)
	orderSvc := service.NewOrderService(orderRepo, offerRepo, listingRepo, revenueRepo, tx, log)
	reviewSvc := service.NewReviewService(reviewRepo, orderRepo, listingRepo)
	userSvc := service.NewUserService(userRepo)
	revenueSvc := service.NewRevenueService(revenueRepo)

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		return nil, err
	}

	listingHandler := handler.NewListingHandler(listingSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	offerHandler := handler.NewOfferHandler(offerSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	userHandler := handler.NewUserHandler(userSvc, reviewSvc, authMw.Client())
	revenueHandler := handler.NewRevenueHandler(revenueSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")

	// Public browse surface.
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get)
	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id", categoryHandler.Get)
	api.GET("/users/:uid/public", userHandler.GetPublic)
	api.GET("/users/:uid/reviews", reviewHandler.ListForUser)

	auth := api.Group("", authMw.RequireAuth)

	auth.POST("/users/register", userHandler.Register)
	auth.GET("/me", userHandler.Me)
	auth.GET("/me/revenue", revenueHandler.Get)

	auth.POST("/listings", listingHandler.Create)
	auth.PUT("/listings/:id", listingHandler.Update)
	auth.DELETE("/listings/:id", listingHandler.Delete)
	auth.GET("/me/listings", listingHandler.ListMine)

	auth.POST("/categories", categoryHandler.Create)
	auth.PUT("/categories/:id", categoryHandler.Update)
	auth.DELETE("/categories/:id", categoryHandler.Delete)

	auth.POST("/listings/:id/offers", offerHandler.Create)
	auth.GET("/listings/:id/offers", offerHandler.ListByListing)
	auth.GET("/offers/:id", offerHandler.Get)
	auth.POST("/offers/:id/accept", offerHandler.Accept)
	auth.POST("/offers/:id/reject", offerHandler.Reject)
	auth.GET("/me/offers", offerHandler.ListMine)

	auth.POST("/listings/:id/orders", orderHandler.Create)
	auth.POST("/offers/:offerId/orders", orderHandler.CreateFromOffer)
	auth.GET("/orders/:id", orderHandler.Get)
	auth.POST("/orders/:id/accept", orderHandler.Accept)
	auth.POST("/orders/:id/complete", orderHandler.Complete)
	auth.POST("/orders/:id/cancel", orderHandler.Cancel)
	auth.GET("/me/orders", orderHandler.ListMine)
	auth.GET("/me/sales", orderHandler.ListSales)

	auth.POST("/orders/:id/review", reviewHandler.Create)
	auth.PUT("/reviews/:id", reviewHandler.Update)
	auth.DELETE("/reviews/:id", reviewHandler.Delete)

	return &Server{e: e, sha: sha, build: buildTime}, nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
