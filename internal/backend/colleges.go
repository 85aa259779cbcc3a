package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/edudesk/contentdesk/internal/value"
)

// DefaultCollegeTypes are the college categories served by the backend.
var DefaultCollegeTypes = []string{"iit", "iiit", "nit", "gfti"}

// College is one college record: its flat basic fields and its section registry.
type College struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Basic value.Group `json:"basic_data"`
	Full  value.Group `json:"full_data"`
}

// CollegeList is the listing of one college type.
type CollegeList struct {
	Type     string        `json:"type"`
	Colleges []value.Group `json:"colleges"`
}

// OrderItem assigns a display position to a college.
type OrderItem struct {
	ID        int64 `json:"id"`
	SortOrder int   `json:"sort_order"`
}

type updateCollegeRequest struct {
	CollegeName string      `json:"college_name"`
	FullData    value.Group `json:"full_data"`
	BasicData   value.Group `json:"basic_data"`
}

type updateOrderRequest struct {
	Category string      `json:"category"`
	Items    []OrderItem `json:"items"`
}

func collegePath(id, typ string) (string, error) {
	id, err := segment(id)
	if err != nil {
		return "", err
	}
	typ, err = segment(typ)
	if err != nil {
		return "", err
	}
	return "/api/college/" + id + "/" + typ, nil
}

// GetCollege fetches one college. Missing basic or full data decode as empty groups.
func (c *Client) GetCollege(ctx context.Context, id, typ string) (College, error) {
	path, err := collegePath(id, typ)
	if err != nil {
		return College{}, err
	}

	data, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return College{}, err
	}

	basic, err := groupField(data, "basic_data")
	if err != nil {
		return College{}, fmt.Errorf("failed to decode college %s: %w", id, err)
	}
	full, err := groupField(data, "full_data")
	if err != nil {
		return College{}, fmt.Errorf("failed to decode college %s: %w", id, err)
	}
	return College{ID: id, Type: typ, Basic: basic, Full: full}, nil
}

// UpdateCollege replaces a college record. The whole registry is written; the backend
// keeps the last write.
func (c *Client) UpdateCollege(ctx context.Context, id, typ, name string, basic, full value.Group) error {
	path, err := collegePath(id, typ)
	if err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodPut, path, updateCollegeRequest{
		CollegeName: name,
		FullData:    full,
		BasicData:   basic,
	})
	return err
}

// DeleteCollege removes a college.
func (c *Client) DeleteCollege(ctx context.Context, id, typ string) error {
	path, err := collegePath(id, typ)
	if err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodDelete, path, nil)
	return err
}

// ListColleges returns the colleges of one type.
func (c *Client) ListColleges(ctx context.Context, typ string) ([]value.Group, error) {
	seg, err := segment(typ)
	if err != nil {
		return nil, err
	}
	data, err := c.doJSON(ctx, http.MethodGet, "/api/"+seg, nil)
	if err != nil {
		return nil, err
	}
	colleges, err := groupList(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s colleges: %w", typ, err)
	}
	return colleges, nil
}

// ListAllColleges fetches every type concurrently. Results follow the order of types;
// the first failure cancels the remaining requests.
func (c *Client) ListAllColleges(ctx context.Context, types []string) ([]CollegeList, error) {
	out := make([]CollegeList, len(types))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, typ := range types {
		eg.Go(func() error {
			colleges, err := c.ListColleges(egCtx, typ)
			if err != nil {
				return fmt.Errorf("failed to list %s colleges: %w", typ, err)
			}
			out[i] = CollegeList{Type: typ, Colleges: colleges}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCollegeOrder stores the display order of the colleges of one category.
func (c *Client) UpdateCollegeOrder(ctx context.Context, category string, items []OrderItem) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/update-college-order", updateOrderRequest{
		Category: category,
		Items:    items,
	})
	return err
}

// groupField decodes the object stored under key, keeping its key order.
func groupField(data []byte, key string) (value.Group, error) {
	r := gjson.GetBytes(data, key)
	if !r.Exists() || r.Type == gjson.Null {
		return value.Group{}, nil
	}
	if !r.IsObject() {
		return value.Group{}, fmt.Errorf("%s is not an object", key)
	}
	return value.ParseGroup([]byte(r.Raw))
}

// groupList decodes a JSON array of objects. Array items that are not objects are
// skipped.
func groupList(data []byte) ([]value.Group, error) {
	v, err := value.Parse(data)
	if err != nil {
		return nil, err
	}
	list, ok := v.(value.List)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %s", v.Kind())
	}
	out := make([]value.Group, 0, len(list))
	for _, item := range list {
		if g, ok := item.(value.Group); ok {
			out = append(out, g)
		}
	}
	return out, nil
}
