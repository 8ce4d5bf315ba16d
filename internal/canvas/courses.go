package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListCourses returns every course the API key can access, following
// pagination to the end. Courses with a blank name (unpublished or
// restricted enrollments return skeleton objects) are included; the
// caller decides how to name them.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(c.perPage))
	return getPaginated[Course](ctx, c, c.apiURL("/courses", q))
}

// GetCourse fetches a single course by ID.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (*Course, error) {
	var course Course
	path := fmt.Sprintf("/courses/%d", courseID)
	if err := c.get(ctx, c.apiURL(path, nil), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListModules returns the modules of a course in position order.
func (c *Client) ListModules(ctx context.Context, courseID int64) ([]Module, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(c.perPage))
	path := fmt.Sprintf("/courses/%d/modules", courseID)
	return getPaginated[Module](ctx, c, c.apiURL(path, q))
}

// ListModuleItems returns the items of a module in the order Canvas
// defines for the module. The mirror preserves this order in the
// generated document.
func (c *Client) ListModuleItems(ctx context.Context, courseID, moduleID int64) ([]Item, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(c.perPage))
	path := fmt.Sprintf("/courses/%d/modules/%d/items", courseID, moduleID)
	return getPaginated[Item](ctx, c, c.apiURL(path, q))
}
