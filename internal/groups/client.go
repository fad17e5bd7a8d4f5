package groups

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/logging"
)

// Category is a Canvas group category (a "group set" in the UI).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Group is one group inside a category.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client manages group categories, groups and memberships for a course.
type Client struct {
	api *canvas.Client
}

// NewClient creates a groups client for the configured course.
func NewClient(api *canvas.Client) *Client {
	return &Client{api: api}
}

// EnsureCategory returns the ID of the group category with the given name,
// creating it when the course does not have one yet.
func (c *Client) EnsureCategory(ctx context.Context, name string) (int64, error) {
	path := fmt.Sprintf("courses/%s/group_categories", c.api.CourseID())

	var categories []Category
	if _, err := c.api.Do(ctx, http.MethodGet, path, nil, nil, &categories); err != nil {
		return 0, fmt.Errorf("failed to list group categories: %w", err)
	}
	for _, category := range categories {
		if category.Name == name {
			return category.ID, nil
		}
	}

	var created Category
	payload := map[string]string{"name": name}
	if _, err := c.api.Do(ctx, http.MethodPost, path, nil, payload, &created); err != nil {
		return 0, fmt.Errorf("failed to create group category %q: %w", name, err)
	}

	c.api.Logger().Info("group category created",
		logging.Service("groups"),
		logging.Operation("ensure_category"),
	)
	return created.ID, nil
}

// ListGroups returns the groups of a category as a name-to-ID map.
func (c *Client) ListGroups(ctx context.Context, categoryID int64) (map[string]int64, error) {
	path := fmt.Sprintf("group_categories/%d/groups", categoryID)

	query := url.Values{}
	query.Set("per_page", canvas.DefaultPerPage)
	pager := c.api.NewPager(path, query)

	byName := make(map[string]int64)
	for {
		var page []Group
		more, err := pager.Next(ctx, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list groups: %w", err)
		}
		if !more {
			break
		}
		for _, group := range page {
			byName[group.Name] = group.ID
		}
	}
	return byName, nil
}

// CreateGroup creates a group inside a category and returns its ID.
func (c *Client) CreateGroup(ctx context.Context, categoryID int64, name string) (int64, error) {
	path := fmt.Sprintf("group_categories/%d/groups", categoryID)

	var created Group
	payload := map[string]string{"name": name}
	if _, err := c.api.Do(ctx, http.MethodPost, path, nil, payload, &created); err != nil {
		return 0, fmt.Errorf("failed to create group %q: %w", name, err)
	}
	return created.ID, nil
}

// AddMember assigns a student to a group. Canvas answers 409 when the user
// is already a member, which is not treated as an error.
func (c *Client) AddMember(ctx context.Context, groupID, userID int64) error {
	path := fmt.Sprintf("groups/%d/memberships", groupID)

	payload := map[string]int64{"user_id": userID}
	_, err := c.api.Do(ctx, http.MethodPost, path, nil, payload, nil)
	if err != nil {
		if canvas.IsStatus(err, http.StatusConflict) {
			c.api.Logger().Warn("user is already in the group",
				logging.Service("groups"),
				logging.UserHash(strconv.FormatInt(userID, 10)),
			)
			return nil
		}
		return fmt.Errorf("failed to add user %d to group %d: %w", userID, groupID, err)
	}
	return nil
}

// SyncRoster reads a semicolon-delimited roster (canvas_id;group_number;
// student_name per row) and assigns each student to "<category>-<number>",
// creating categories and groups on demand.
func (c *Client) SyncRoster(ctx context.Context, r io.Reader, categoryName string) error {
	categoryID, err := c.EnsureCategory(ctx, categoryName)
	if err != nil {
		return err
	}

	existing, err := c.ListGroups(ctx, categoryID)
	if err != nil {
		return err
	}

	logger := logging.WithOperation(logging.WithService(c.api.Logger(), "groups"), "sync_roster")

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = 3

	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("roster line %d: %w", line, err)
		}

		userID, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("roster line %d: invalid canvas ID %q", line, row[0])
		}
		groupNumber, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return fmt.Errorf("roster line %d: invalid group number %q", line, row[1])
		}

		groupName := fmt.Sprintf("%s-%d", categoryName, groupNumber)
		groupID, ok := existing[groupName]
		if !ok {
			groupID, err = c.CreateGroup(ctx, categoryID, groupName)
			if err != nil {
				return err
			}
			existing[groupName] = groupID
			logger.Info("group created")
		}

		if err := c.AddMember(ctx, groupID, userID); err != nil {
			return err
		}
		logger.Info("student assigned to group", logging.UserHash(strings.TrimSpace(row[0])))
	}

	return nil
}
