// Package main provides the entry point for the canvas-mirror CLI.
//
// canvas-mirror creates a local, readable mirror of Canvas LMS course
// content: module pages, assignments, discussions, quizzes, and files,
// organized per course and module with Markdown documents.
//
// Usage:
//
//	canvas-mirror mirror --api-url https://canvas.example.edu --api-key <token>
//	canvas-mirror history
//
// See --help for all available options.
package main

// main is the entry point for canvas-mirror.
func main() {
	Execute()
}
