package canvas

import (
	"context"
	"fmt"
	"net/url"
)

// GetPage fetches a wiki page by its URL slug (the page_url field of a
// module item).
func (c *Client) GetPage(ctx context.Context, courseID int64, slug string) (*Page, error) {
	var p Page
	path := fmt.Sprintf("/courses/%d/pages/%s", courseID, url.PathEscape(slug))
	if err := c.get(ctx, c.apiURL(path, nil), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAssignment fetches an assignment by content ID.
func (c *Client) GetAssignment(ctx context.Context, courseID, assignmentID int64) (*Assignment, error) {
	var a Assignment
	path := fmt.Sprintf("/courses/%d/assignments/%d", courseID, assignmentID)
	if err := c.get(ctx, c.apiURL(path, nil), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetDiscussion fetches a discussion topic by content ID.
func (c *Client) GetDiscussion(ctx context.Context, courseID, topicID int64) (*Discussion, error) {
	var d Discussion
	path := fmt.Sprintf("/courses/%d/discussion_topics/%d", courseID, topicID)
	if err := c.get(ctx, c.apiURL(path, nil), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetQuiz fetches a quiz by content ID.
func (c *Client) GetQuiz(ctx context.Context, courseID, quizID int64) (*Quiz, error) {
	var q Quiz
	path := fmt.Sprintf("/courses/%d/quizzes/%d", courseID, quizID)
	if err := c.get(ctx, c.apiURL(path, nil), &q); err != nil {
		return nil, err
	}
	return &q, nil
}
