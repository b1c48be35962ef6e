// Package httpapi exposes the REST surface. Paths, verbs and payload shapes
// follow the original AttendFlow API.
package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"

	"attendflow/internal/notify"
	"attendflow/internal/queue"
	"attendflow/internal/student"
	"attendflow/internal/user"
)

// StudentStore is the student persistence surface the handlers need.
type StudentStore interface {
	List(ctx context.Context) ([]student.Student, error)
	Search(ctx context.Context, query string) ([]student.Student, error)
	Create(ctx context.Context, s student.Student) (student.Student, error)
	Update(ctx context.Context, id string, upd student.Update) (student.Student, error)
	UpdateStatus(ctx context.Context, id, status, timeLabel string) (student.Student, error)
}

// AccountService is the credential flow surface the handlers need.
type AccountService interface {
	List(ctx context.Context) ([]user.User, error)
	Register(ctx context.Context, req user.RegisterRequest) (user.User, error)
	Login(ctx context.Context, email, password string) (user.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Delete(ctx context.Context, id string) error
}

// Handler bundles the REST handlers and their dependencies.
type Handler struct {
	students    StudentStore
	accounts    AccountService
	dispatcher  *notify.Dispatcher
	sms         notify.Sender
	jobs        queue.Queue
	institution string
}

// New creates the handler set.
func New(students StudentStore, accounts AccountService, dispatcher *notify.Dispatcher, sms notify.Sender, jobs queue.Queue, institution string) *Handler {
	return &Handler{
		students:    students,
		accounts:    accounts,
		dispatcher:  dispatcher,
		sms:         sms,
		jobs:        jobs,
		institution: institution,
	}
}

// Register mounts all routes under /api.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")

	st := api.Group("/students")
	st.GET("", h.ListStudents)
	st.GET("/search", h.SearchStudents)
	st.POST("", h.AddStudent)
	st.PUT("/:id", h.UpdateStudent)
	st.PUT("/:id/status", h.UpdateStudentStatus)
	st.POST("/send-sms", h.NotifyParents)

	au := api.Group("/auth")
	au.GET("/users", h.ListUsers)
	au.POST("/register", h.RegisterUser)
	au.POST("/login", h.Login)
	au.POST("/forgot-password", h.ForgotPassword)
	au.POST("/reset-password", h.ResetPassword)
	au.DELETE("/delete/:id", h.DeleteUser)

	sms := api.Group("/sms")
	sms.POST("/send-individual", h.SendIndividualSMS)
	sms.POST("/send-bulk", h.SendBulkSMS)
}
