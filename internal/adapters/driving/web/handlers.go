package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/logger"
)

// formFields maps form keys to employee input fields.
var formFields = map[string]domain.Field{
	"name":      domain.FieldName,
	"gender":    domain.FieldGender,
	"salary":    domain.FieldSalary,
	"startDate": domain.FieldStartDate,
	"notes":     domain.FieldNotes,
}

// inputFromForm reads an urlencoded submission without coercing anything.
// Only keys present in the body are marked as submitted.
func inputFromForm(c *gin.Context) domain.EmployeeInput {
	in := domain.EmployeeInput{Submitted: map[domain.Field]bool{}}

	for key, field := range formFields {
		value, ok := c.GetPostForm(key)
		if !ok {
			continue
		}
		in.Mark(field)
		switch field {
		case domain.FieldName:
			in.Name = value
		case domain.FieldGender:
			in.Gender = value
		case domain.FieldSalary:
			in.Salary = value
		case domain.FieldStartDate:
			in.StartDate = value
		case domain.FieldNotes:
			in.Notes = value
		}
	}

	if values, ok := c.GetPostFormArray("department"); ok {
		in.Department = values
		in.Mark(domain.FieldDepartment)
	}
	return in
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) dashboard(c *gin.Context) {
	views, err := s.ports.Payroll.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"employees": views,
		"totals":    domain.Totals(views),
	})
}

func (s *Server) addEmployee(c *gin.Context) {
	e, err := s.ports.Payroll.Create(c.Request.Context(), inputFromForm(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	logger.Debug("Added employee %d [%s]", e.ID, c.GetString(requestIDKey))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) showEmployee(c *gin.Context) {
	e, err := s.ports.Payroll.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if e == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) editEmployee(c *gin.Context) {
	if err := s.ports.Payroll.Update(c.Request.Context(), c.Param("id"), inputFromForm(c)); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) deleteEmployee(c *gin.Context) {
	if err := s.ports.Payroll.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// fail maps service errors onto responses. Validation failures are shown
// to the user as plain text; anything else is a server error.
func (s *Server) fail(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.String(http.StatusBadRequest, "Error: %s", verr.Message)
		return
	}
	logger.Error("%s %s: %v [%s]", c.Request.Method, c.Request.URL.Path, err, c.GetString(requestIDKey))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
