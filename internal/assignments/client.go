package assignments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/logging"
)

// Client manages course assignments and assignment groups.
type Client struct {
	api *canvas.Client
}

// NewClient creates an assignments client for the configured course.
func NewClient(api *canvas.Client) *Client {
	return &Client{api: api}
}

func (c *Client) assignmentsPath() string {
	return fmt.Sprintf("courses/%s/assignments", c.api.CourseID())
}

// List returns every assignment of the course, walking all pages.
func (c *Client) List(ctx context.Context) ([]Assignment, error) {
	query := url.Values{}
	query.Set("per_page", canvas.DefaultPerPage)
	pager := c.api.NewPager(c.assignmentsPath(), query)

	var assignments []Assignment
	for {
		var page []Assignment
		more, err := pager.Next(ctx, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list assignments: %w", err)
		}
		if !more {
			break
		}
		assignments = append(assignments, page...)
	}
	return assignments, nil
}

// Get retrieves a single assignment by ID.
func (c *Client) Get(ctx context.Context, id int64) (*Assignment, error) {
	var assignment Assignment
	path := fmt.Sprintf("%s/%d", c.assignmentsPath(), id)
	if _, err := c.api.Do(ctx, http.MethodGet, path, nil, nil, &assignment); err != nil {
		return nil, fmt.Errorf("failed to retrieve assignment %d: %w", id, err)
	}
	return &assignment, nil
}

// Groups returns the assignment groups of the course as an ID-to-name map.
func (c *Client) Groups(ctx context.Context) (map[int64]string, error) {
	var groups []AssignmentGroup
	path := fmt.Sprintf("courses/%s/assignment_groups", c.api.CourseID())
	if _, err := c.api.Do(ctx, http.MethodGet, path, nil, nil, &groups); err != nil {
		return nil, fmt.Errorf("failed to retrieve assignment groups: %w", err)
	}

	byID := make(map[int64]string, len(groups))
	for _, group := range groups {
		byID[group.ID] = group.Name
	}
	return byID, nil
}

// Push creates the assignment, or updates it when an assignment with its ID
// already exists and is still unpublished. A published assignment is never
// overwritten; pushing one returns ErrPublished.
func (c *Client) Push(ctx context.Context, a Assignment) (*Assignment, error) {
	logger := logging.WithService(c.api.Logger(), "assignments")
	payload := assignmentPayload{Assignment: a}

	if a.ID != 0 {
		existing, err := c.Get(ctx, a.ID)
		switch {
		case canvas.IsStatus(err, http.StatusNotFound):
			logger.Warn("assignment not found, creating a new one",
				logging.Operation("push"),
			)
		case err != nil:
			return nil, err
		case existing.Published:
			return nil, fmt.Errorf("assignment %q (%d): %w", a.Name, a.ID, ErrPublished)
		default:
			var updated Assignment
			path := fmt.Sprintf("%s/%d", c.assignmentsPath(), a.ID)
			if _, err := c.api.Do(ctx, http.MethodPut, path, nil, payload, &updated); err != nil {
				return nil, fmt.Errorf("failed to update assignment %q: %w", a.Name, err)
			}
			logger.Info("assignment updated", logging.Operation("push"))
			return &updated, nil
		}
	}

	var created Assignment
	if _, err := c.api.Do(ctx, http.MethodPost, c.assignmentsPath(), nil, payload, &created); err != nil {
		return nil, fmt.Errorf("failed to create assignment %q: %w", a.Name, err)
	}
	logger.Info("assignment created", logging.Operation("push"))
	return &created, nil
}

// Overview returns the course's assignments nested under their assignment
// groups, in the simplified shape used by the course-planning scripts.
func (c *Client) Overview(ctx context.Context) (map[int64]*GroupOverview, error) {
	groups, err := c.Groups(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	nested := make(map[int64]*GroupOverview, len(groups))
	for id, name := range groups {
		nested[id] = &GroupOverview{Name: name}
	}

	logger := logging.WithService(c.api.Logger(), "assignments")
	for _, a := range assignments {
		group, ok := nested[a.GroupID]
		if !ok {
			logger.Warn("assignment is in an unknown group",
				logging.Operation("overview"),
			)
			continue
		}
		group.Assignments = append(group.Assignments, a)
	}
	return nested, nil
}
