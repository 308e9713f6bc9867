package student

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// Handler serves the public roster endpoints
type Handler struct {
	repo Repository
}

// NewHandler creates a new roster handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /api/students
func (h *Handler) List(c *gin.Context) {
	students, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list students", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	c.JSON(http.StatusOK, NewRoster(students))
}

// Export handles GET /api/students/export and streams the roster as an
// Excel workbook.
func (h *Handler) Export(c *gin.Context) {
	students, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("Failed to export students", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	f, err := buildRosterWorkbook(students)
	if err != nil {
		slog.Error("Failed to build roster workbook", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export students"})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("students_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		slog.Error("Failed to write roster workbook", "error", err)
	}
}

// buildRosterWorkbook renders the roster into a single-sheet workbook
func buildRosterWorkbook(students []Projection) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Students"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []any{"ID", "Name", "Email", "Fees Paid", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, s := range students {
		status := "Unpaid"
		if s.FeesPaid {
			status = "Paid"
		}
		row := []any{s.ID, s.Name, s.Email, status, s.CreatedAt.Format(time.RFC3339)}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
