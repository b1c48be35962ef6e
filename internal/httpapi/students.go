package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendflow/internal/notify"
	"attendflow/internal/queue"
	"attendflow/internal/student"
)

// ListStudents returns every student record.
func (h *Handler) ListStudents(c *gin.Context) {
	res, err := h.students.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res == nil {
		res = []student.Student{}
	}
	c.JSON(http.StatusOK, res)
}

// SearchStudents filters by case-insensitive substring on name or roll.
func (h *Handler) SearchStudents(c *gin.Context) {
	res, err := h.students.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res == nil {
		res = []student.Student{}
	}
	c.JSON(http.StatusOK, res)
}

// AddStudent creates a record and returns it with its assigned id.
func (h *Handler) AddStudent(c *gin.Context) {
	var s student.Student
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	saved, err := h.students.Create(c.Request.Context(), s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}

type updateStudentRequest struct {
	Name              string  `json:"name"`
	Roll              string  `json:"roll"`
	StudentClass      string  `json:"studentClass"`
	ParentPhoneNumber string  `json:"parentPhoneNumber"`
	Status            *string `json:"status"`
	Time              *string `json:"time"`
}

// UpdateStudent overwrites the record. A null status or time in the body
// leaves the stored value untouched.
func (h *Handler) UpdateStudent(c *gin.Context) {
	var req updateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.students.Update(c.Request.Context(), c.Param("id"), student.Update{
		Name:              req.Name,
		Roll:              req.Roll,
		StudentClass:      req.StudentClass,
		ParentPhoneNumber: req.ParentPhoneNumber,
		Status:            req.Status,
		Time:              req.Time,
	})
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// UpdateStudentStatus overwrites the status/time pair only.
func (h *Handler) UpdateStudentStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.students.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Time)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// NotifyParents queues a fire-and-forget notification for each student in the
// body that has a usable phone number, then confirms immediately. Delivery
// happens in the worker.
func (h *Handler) NotifyParents(c *gin.Context) {
	var records []student.Student
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	queued := 0
	for _, s := range records {
		if !notify.UsablePhone(s.ParentPhoneNumber) {
			continue
		}
		job := queue.Job{
			Recipient: s.ParentPhoneNumber,
			Body:      notify.AttendanceMessage(s.Name, s.Status, h.institution),
		}
		if err := h.jobs.Publish(c.Request.Context(), job); err != nil {
			log.Printf("queue publish for %s failed: %v", s.Name, err)
			continue
		}
		queued++
	}
	log.Printf("queued %d parent notifications", queued)
	c.String(http.StatusOK, "SMS notifications queued for absent students' parents")
}
