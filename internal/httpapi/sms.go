package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendflow/internal/notify"
	"attendflow/internal/student"
)

// SendIndividualSMS notifies a single student's parent.
func (h *Handler) SendIndividualSMS(c *gin.Context) {
	var s student.Student
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if !notify.UsablePhone(s.ParentPhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No parent phone number found for " + s.Name,
		})
		return
	}

	msg := notify.AttendanceMessage(s.Name, s.Status, h.institution)
	if err := h.sms.Send(c.Request.Context(), s.ParentPhoneNumber, msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to send SMS: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SMS Sent Successfully To The Recipient",
		"sentTo":  s.ParentPhoneNumber,
	})
}

// SendBulkSMS notifies the parents of all absent students in the body.
// Per-recipient failures are reported, never propagated as a request error.
// The empty-subset case intentionally returns 200 with success=false for
// compatibility with the original API.
func (h *Handler) SendBulkSMS(c *gin.Context) {
	var records []student.Student
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	rep := h.dispatcher.Dispatch(c.Request.Context(), records)
	if rep.Eligible == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "No absent students with valid parent phone numbers found.",
		})
		return
	}

	sentTo := make([]string, 0, len(rep.Sent))
	for _, d := range rep.Sent {
		sentTo = append(sentTo, fmt.Sprintf("%s -> %s", d.Name, d.Phone))
	}
	failed := make([]string, 0, len(rep.Failed))
	for _, f := range rep.Failed {
		failed = append(failed, fmt.Sprintf("%s (Error: %s)", f.Name, f.Err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"totalSent":   len(rep.Sent),
		"totalFailed": len(rep.Failed),
		"sentTo":      sentTo,
		"failed":      failed,
		"message":     fmt.Sprintf("Bulk SMS completed: %d sent, %d failed.", len(rep.Sent), len(rep.Failed)),
	})
}
