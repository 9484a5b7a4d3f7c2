package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-manager/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.With(h.myInfo).Get("/", h.GetAllUserInfo) // 店长只能看到本门店的员工
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/stores", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateStore)
			r.Get("/", h.GetAllStores) // 员工选择门店时需要完整的门店目录
			r.Route("/{storeID}", func(r chi.Router) {
				r.Use(h.storeInfo)
				r.Get("/", h.GetStore)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateStore)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteStore)
				r.With(h.RequiredRole([]domain.Role{domain.RoleStoreManager, domain.RoleAdmin})).With(h.myInfo).Get("/shift-schedules", h.GetStoreShiftSchedules)
				r.With(h.RequiredRole([]domain.Role{domain.RoleStoreManager, domain.RoleAdmin})).With(h.myInfo).Post("/shift-schedules/auto", h.AutoScheduleStore)
			})
		})

		r.Route("/shift-schedules", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventInactiveUser)
			r.Get("/", h.GetMyShiftSchedules)
			r.Route("/{date}", func(r chi.Router) {
				r.Get("/", h.GetMyShiftSchedule)
				r.Put("/", h.PutMyShiftSchedule)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventInactiveUser)
			r.Post("/clock-in", h.ClockIn)
			r.Post("/clock-out", h.ClockOut)
			r.Get("/", h.GetMyAttendanceRecords)
		})

		r.Route("/approval-requests", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.preventInactiveUser).Post("/", h.CreateApprovalRequest)
			r.Get("/", h.GetApprovalRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.approvalRequest)
				r.Get("/", h.GetApprovalRequest)
				r.With(h.RequiredRole([]domain.Role{domain.RoleStoreManager, domain.RoleAdmin})).Post("/review", h.ReviewApprovalRequest)
			})
		})

		r.Route("/allowances", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyAllowances)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateAllowance)
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleStoreManager, domain.RoleAdmin})).
			Get("/reports/monthly-attendance", h.ExportMonthlyAttendanceReport)
	})
}
