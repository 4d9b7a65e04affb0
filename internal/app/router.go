package app

import (
	"hopebridge_backend/internal/config"
	"hopebridge_backend/internal/middleware"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理后台接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录：游客可浏览，staff 登录后可带 all=true
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)

		// 捐赠：游客也可捐，登录用户自动关联账号
		public.POST("/donations", middleware.TryAuthMiddleware(a.Config), c.donation.Donate)
		public.POST("/donations/confirm", c.donation.Confirm)
		public.GET("/donations/total", c.donation.Total)

		public.GET("/events", c.event.ListEvents)
		public.GET("/events/:id", c.event.GetEvent)

		public.GET("/shop/products", c.shop.ListProducts)
		public.POST("/shop/orders/confirm", c.shop.MarkPaid)

		public.POST("/volunteers/apply", c.volunteer.Apply)

		public.GET("/gallery", c.gallery.ListItems)
		public.GET("/gallery/albums", c.gallery.Albums)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)

	// 报名与学习进度
	rg.POST("/courses/:id/enroll", c.enrollment.Enroll)
	rg.POST("/courses/:id/purchase", c.enrollment.Purchase)
	rg.POST("/courses/:id/payment-intent", c.payment.CreateIntent)
	rg.GET("/enrollments", c.enrollment.MyEnrollments)
	rg.GET("/enrollments/:id", c.enrollment.GetEnrollment)
	rg.GET("/enrollments/:id/progress", c.enrollment.Progress)
	rg.GET("/enrollments/:id/lessons", c.enrollment.LessonProgress)
	rg.POST("/enrollments/:id/pause", c.enrollment.Pause)
	rg.POST("/enrollments/:id/resume", c.enrollment.Resume)
	rg.POST("/lessons/:id/complete", c.enrollment.CompleteLesson)

	rg.GET("/payments", c.payment.MyPayments)

	// 活动报名
	rg.POST("/events/:id/register", c.event.Register)
	rg.DELETE("/events/:id/register", c.event.CancelRegistration)

	// 商店
	rg.POST("/shop/orders", c.shop.CreateOrder)
	rg.GET("/shop/orders", c.shop.MyOrders)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Staff, model.Admin))
	{
		// 课程管理
		admin.POST("/courses", c.course.CreateCourse)
		admin.PUT("/courses/:id", c.course.UpdateCourse)
		admin.DELETE("/courses/:id", c.course.DeleteCourse)
		admin.POST("/courses/:id/modules", c.course.CreateModule)
		admin.GET("/courses/:id/enrollments", c.enrollment.CourseEnrollments)
		admin.PUT("/modules/:id", c.course.UpdateModule)
		admin.DELETE("/modules/:id", c.course.DeleteModule)
		admin.POST("/modules/:id/lessons", c.course.CreateLesson)
		admin.PUT("/lessons/:id", c.course.UpdateLesson)
		admin.DELETE("/lessons/:id", c.course.DeleteLesson)

		// 支付与捐赠
		admin.GET("/payments", c.payment.ListPayments)
		admin.POST("/payments/:id/refund", c.payment.Refund)
		admin.GET("/donations", c.donation.ListDonations)

		// 活动管理
		admin.GET("/events", c.event.ListAllEvents)
		admin.POST("/events", c.event.CreateEvent)
		admin.PUT("/events/:id", c.event.UpdateEvent)
		admin.DELETE("/events/:id", c.event.DeleteEvent)
		admin.GET("/events/:id/attendees", c.event.Attendees)

		// 商店管理
		admin.GET("/shop/products", c.shop.ListAllProducts)
		admin.POST("/shop/products", c.shop.CreateProduct)
		admin.PUT("/shop/products/:id", c.shop.UpdateProduct)
		admin.DELETE("/shop/products/:id", c.shop.DeleteProduct)
		admin.GET("/shop/orders", c.shop.ListOrders)
		admin.GET("/shop/orders/:id", c.shop.GetOrder)

		// 志愿者审核
		admin.GET("/volunteers", c.volunteer.ListApplications)
		admin.POST("/volunteers/:id/review", c.volunteer.Review)

		// 媒体库
		admin.POST("/gallery/images", c.gallery.UploadImage)
		admin.POST("/gallery/videos", c.gallery.UploadVideo)
		admin.DELETE("/gallery/:id", c.gallery.DeleteItem)
	}

	// 仅 admin 的用户管理
	users := router.Group("/api/admin/users")
	users.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		users.GET("", c.user.ListUsers)
		users.GET("/:id", c.user.GetUser)
		users.PUT("/:id/disabled", c.user.SetDisabled)
		users.PUT("/:id/role", c.user.SetRole)
	}
}
