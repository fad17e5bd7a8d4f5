package rubrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/logging"
)

// Rubric is a grading rubric as authored in JSON by course staff.
type Rubric struct {
	Title       string      `json:"title"`
	TotalPoints *int        `json:"total_points"`
	Criteria    []Criterion `json:"criteria"`
}

// Criterion is one graded aspect with its possible ratings, keyed by an
// arbitrary author-chosen ID.
type Criterion struct {
	Description string            `json:"description"`
	Ratings     map[string]Rating `json:"ratings"`
}

// Rating is one score level of a criterion.
type Rating struct {
	Description     string `json:"description"`
	LongDescription string `json:"long_description"`
	Points          *int   `json:"points"`
}

// Load reads a rubric JSON file. Non-integer points fail here, during
// decoding, rather than surfacing as a Canvas API error later.
func Load(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric file: %w", err)
	}

	var rubric Rubric
	if err := json.Unmarshal(data, &rubric); err != nil {
		return nil, fmt.Errorf("failed to parse rubric file %s: %w", path, err)
	}
	return &rubric, nil
}

// Validate checks the rubric's structure and that the criterion maxima sum
// to the declared total. All problems are reported together so authors can
// fix the file in one pass.
func (r *Rubric) Validate() error {
	var errs []error

	if r.Title == "" {
		errs = append(errs, errors.New("rubric is missing a title"))
	}
	if r.TotalPoints == nil {
		errs = append(errs, errors.New("rubric is missing total_points"))
	}
	if len(r.Criteria) == 0 {
		errs = append(errs, errors.New("rubric has no criteria"))
		return errors.Join(errs...)
	}

	sum := 0
	for i, criterion := range r.Criteria {
		name := criterion.Description
		if name == "" {
			name = fmt.Sprintf("criterion %d", i+1)
			errs = append(errs, fmt.Errorf("criterion %d is missing a description", i+1))
		}
		if len(criterion.Ratings) == 0 {
			errs = append(errs, fmt.Errorf("%s has no ratings", name))
			continue
		}

		max := 0
		for key, rating := range criterion.Ratings {
			if rating.Points == nil {
				errs = append(errs, fmt.Errorf("%s #%s is missing points", name, key))
			} else if *rating.Points > max {
				max = *rating.Points
			}
			if rating.Description == "" {
				errs = append(errs, fmt.Errorf("%s #%s is missing a description", name, key))
			}
		}
		sum += max
	}

	if r.TotalPoints != nil && sum != *r.TotalPoints {
		errs = append(errs, fmt.Errorf("criterion maxima sum to %d points, but total_points is %d", sum, *r.TotalPoints))
	}

	return errors.Join(errs...)
}

// wireCriteria re-keys the criteria as "1", "2", ... the way the Canvas
// rubric endpoint expects them.
func (r *Rubric) wireCriteria() map[string]wireCriterion {
	criteria := make(map[string]wireCriterion, len(r.Criteria))
	for i, criterion := range r.Criteria {
		ratings := make(map[string]wireRating, len(criterion.Ratings))
		for key, rating := range criterion.Ratings {
			points := 0
			if rating.Points != nil {
				points = *rating.Points
			}
			ratings[key] = wireRating{
				Description:     rating.Description,
				LongDescription: rating.LongDescription,
				Points:          points,
			}
		}
		criteria[strconv.Itoa(i+1)] = wireCriterion{
			Description: criterion.Description,
			Ratings:     ratings,
		}
	}
	return criteria
}

type wireCriterion struct {
	Description string                `json:"description"`
	Ratings     map[string]wireRating `json:"ratings"`
}

type wireRating struct {
	Description     string `json:"description"`
	LongDescription string `json:"long_description"`
	Points          int    `json:"points"`
}

type createPayload struct {
	RubricAssociation association `json:"rubric_association"`
	Rubric            wireRubric  `json:"rubric"`
}

type association struct {
	AssociationType string `json:"association_type"`
	AssociationID   string `json:"association_id"`
	UseForGrading   bool   `json:"use_for_grading"`
	Title           string `json:"title"`
}

type wireRubric struct {
	Title    string                   `json:"title"`
	Criteria map[string]wireCriterion `json:"criteria"`
}

// Client uploads rubrics to a course.
type Client struct {
	api *canvas.Client
}

// NewClient creates a rubrics client for the configured course.
func NewClient(api *canvas.Client) *Client {
	return &Client{api: api}
}

// Create validates the rubric and uploads it, associated with the course
// and marked for grading.
func (c *Client) Create(ctx context.Context, rubric *Rubric) error {
	if err := rubric.Validate(); err != nil {
		return fmt.Errorf("invalid rubric %q: %w", rubric.Title, err)
	}

	payload := createPayload{
		RubricAssociation: association{
			AssociationType: "Course",
			AssociationID:   c.api.CourseID(),
			UseForGrading:   true,
			Title:           rubric.Title,
		},
		Rubric: wireRubric{
			Title:    rubric.Title,
			Criteria: rubric.wireCriteria(),
		},
	}

	path := fmt.Sprintf("courses/%s/rubrics", c.api.CourseID())
	if _, err := c.api.Do(ctx, http.MethodPost, path, nil, payload, nil); err != nil {
		return fmt.Errorf("failed to create rubric %q: %w", rubric.Title, err)
	}

	c.api.Logger().Info("rubric created",
		logging.Service("rubrics"),
		logging.Operation("create"),
		logging.Status(logging.StatusSuccess),
	)
	return nil
}
