package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/config"
	"github.com/shared-tw/backend/internal/handler"
	"github.com/shared-tw/backend/internal/logic"
)

// Services 路由依赖的业务逻辑
type Services struct {
	Accounts      *logic.AccountLogic
	Donations     *logic.DonationLogic
	RequiredItems *logic.RequiredItemLogic
}

func Setup(cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(requestIdMiddleware())
	r.Use(accessLogMiddleware())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "shared-tw-backend",
		})
	})

	accountHandler := handler.NewAccountHandler(svc.Accounts)
	requiredItemHandler := handler.NewRequiredItemHandler(svc.RequiredItems, cfg.Donation.PageSize)
	donationHandler := handler.NewDonationHandler(svc.Donations, cfg.Donation.PageSize)
	auth := authMiddleware(cfg.Auth, svc.Accounts)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 注册
		register := v1.Group("/register")
		{
			register.POST("/organization", accountHandler.RegisterOrganization)
			register.POST("/donor", accountHandler.RegisterDonor)
		}

		// 公开的需求物资
		items := v1.Group("/required-items")
		{
			items.GET("", requiredItemHandler.GetRequiredItems)
			items.GET("/:id", requiredItemHandler.GetRequiredItem)
			items.GET("/:id/donations", auth, donationHandler.GetItemDonations)
			items.POST("/:id/donations", auth, donationHandler.CreateDonation)
		}

		v1.GET("/me", auth, accountHandler.Me)

		// 机构
		organization := v1.Group("/organization", auth)
		{
			organization.GET("/required-items", requiredItemHandler.GetOrganizationRequiredItems)
			organization.POST("/required-items", requiredItemHandler.CreateRequiredItem)
			organization.POST("/required-items/:id/cancel", requiredItemHandler.CancelRequiredItem)
		}

		// 捐赠
		donations := v1.Group("/donations", auth)
		{
			donations.GET("/:id", donationHandler.GetDonation)
			donations.POST("/:id/events", donationHandler.SubmitEvent)
		}

		v1.GET("/donor/donations", auth, donationHandler.GetUserDonations)
	}

	return r
}
