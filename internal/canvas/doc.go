// Package canvas provides a read-only client for the Canvas LMS REST API.
// It covers the subset of the API needed for mirroring course content:
// course, module, and module item listings, the HTML bodies of pages,
// assignments, discussions, and quizzes, and file metadata plus downloads.
package canvas
