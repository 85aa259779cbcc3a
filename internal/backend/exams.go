package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/edudesk/contentdesk/internal/value"
)

// Collection names an exam listing on the backend.
type Collection string

// Exam collections.
const (
	Exams        Collection = "exams"
	CollegeExams Collection = "college-exams"
)

type updateExamRequest struct {
	BasicData   value.Group `json:"basic_data"`
	FullDetails value.Group `json:"full_details"`
}

// examPath builds the path of one exam. Exams are addressed by UUID.
func examPath(coll Collection, id string) (string, error) {
	if coll == Exams {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return "", fmt.Errorf("%w: exam id %q: %w", ErrInvalidID, id, err)
		}
		id = parsed.String()
	}
	seg, err := segment(id)
	if err != nil {
		return "", err
	}
	return "/" + string(coll) + "/" + seg, nil
}

// GetExam fetches one exam as a flat group of basic and section fields. The backend
// wraps it in "data"; an unwrapped object is accepted too.
func (c *Client) GetExam(ctx context.Context, coll Collection, id string) (value.Group, error) {
	path, err := examPath(coll, id)
	if err != nil {
		return value.Group{}, err
	}
	data, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return value.Group{}, err
	}

	if gjson.GetBytes(data, "data").IsObject() {
		return groupField(data, "data")
	}
	g, err := value.ParseGroup(data)
	if err != nil {
		return value.Group{}, fmt.Errorf("failed to decode exam %s: %w", id, err)
	}
	return g, nil
}

// UpdateExam replaces an exam's basic fields and section registry.
func (c *Client) UpdateExam(ctx context.Context, coll Collection, id string, basic, full value.Group) error {
	path, err := examPath(coll, id)
	if err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodPut, path, updateExamRequest{BasicData: basic, FullDetails: full})
	return err
}

// CreateExam adds an exam and returns the stored record when the backend echoes it.
func (c *Client) CreateExam(ctx context.Context, coll Collection, exam value.Group) (value.Group, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/"+string(coll), exam)
	if err != nil {
		return value.Group{}, err
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return value.Group{}, nil
	}
	return value.ParseGroup(data)
}

// DeleteExam removes an exam.
func (c *Client) DeleteExam(ctx context.Context, coll Collection, id string) error {
	path, err := examPath(coll, id)
	if err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodDelete, path, nil)
	return err
}

// ListExams returns every exam of a collection.
func (c *Client) ListExams(ctx context.Context, coll Collection) ([]value.Group, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/"+string(coll), nil)
	if err != nil {
		return nil, err
	}
	if d := gjson.GetBytes(data, "data"); d.IsArray() {
		data = []byte(d.Raw)
	}
	exams, err := groupList(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll, err)
	}
	return exams, nil
}
