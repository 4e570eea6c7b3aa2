// Package render turns the latest report into text, JSON, YAML or Markdown.
//
// Every renderer accepts a nil report and prints the fixed placeholder
// "No report available" (or its structured equivalent) instead.
package render
