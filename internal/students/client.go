package students

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/logging"
)

// Student is one enrolled student of the course.
type Student struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
}

// Client lists course enrollments.
type Client struct {
	api *canvas.Client
}

// NewClient creates a students client for the configured course.
func NewClient(api *canvas.Client) *Client {
	return &Client{api: api}
}

// ListStudents returns every student enrolled in the course, walking all
// pages of the users endpoint.
func (c *Client) ListStudents(ctx context.Context) ([]Student, error) {
	query := url.Values{}
	query.Add("enrollment_type[]", "student")
	query.Set("per_page", canvas.DefaultPerPage)

	path := fmt.Sprintf("courses/%s/users", c.api.CourseID())
	pager := c.api.NewPager(path, query)

	var students []Student
	for {
		var page []Student
		more, err := pager.Next(ctx, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list students: %w", err)
		}
		if !more {
			break
		}
		students = append(students, page...)
	}

	c.api.Logger().Info("students listed",
		logging.Service("students"),
		logging.Operation("list"),
	)

	return students, nil
}

// WriteCSV writes the roster as CSV with an id,name,login_id header, the
// format the grading spreadsheets import.
func WriteCSV(w io.Writer, students []Student) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "name", "login_id"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, s := range students {
		if err := cw.Write([]string{strconv.FormatInt(s.ID, 10), s.Name, s.LoginID}); err != nil {
			return fmt.Errorf("failed to write student %d: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
