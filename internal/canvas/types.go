package canvas

import "time"

// ItemType identifies the kind of content a module item points at.
// The set is closed: values outside it are handled as unsupported.
type ItemType string

// Module item types returned by the Canvas API.
const (
	ItemTypePage        ItemType = "Page"
	ItemTypeFile        ItemType = "File"
	ItemTypeExternalURL ItemType = "ExternalUrl"
	ItemTypeAssignment  ItemType = "Assignment"
	ItemTypeDiscussion  ItemType = "Discussion"
	ItemTypeQuiz        ItemType = "Quiz"
	ItemTypeSubHeader   ItemType = "SubHeader"
)

// User is the authenticated Canvas user, used only for the startup
// credential probe.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is a Canvas course. Only the fields the mirror needs are mapped.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Module is an ordered container of items within a course.
type Module struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Item is a single entry within a module. Which payload fields are set
// depends on Type: pages carry PageURL, files and assignments carry
// ContentID, external links carry ExternalURL.
type Item struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Type        ItemType `json:"type"`
	ContentID   int64    `json:"content_id"`
	PageURL     string   `json:"page_url"`
	ExternalURL string   `json:"external_url"`
	HTMLURL     string   `json:"html_url"`
	Position    int      `json:"position"`
}

// Page is a wiki page with an HTML body.
type Page struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Assignment carries an HTML description plus the metadata the mirror
// renders alongside it.
type Assignment struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	DueAt          *time.Time `json:"due_at"`
	PointsPossible float64    `json:"points_possible"`
}

// Discussion is a discussion topic; Message is its HTML body.
type Discussion struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Quiz carries the quiz description as HTML.
type Quiz struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// File is Canvas file metadata. URL is a pre-authorized, usually
// redirecting download location.
type File struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	ContentType string `json:"content-type"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
}
