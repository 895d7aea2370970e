package ui

import (
	"fmt"
	"strings"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
)

// Detail is one key/value line of a result box
type Detail struct {
	Key   string
	Value string
}

// Result represents a lookup or resolution outcome box
type Result struct {
	Type        ResultType
	Title       string   // e.g., "Gtk"
	Details     []Detail // Rendered in order
	Error       error    // Error (for failure results)
	Suggestions []string // "Did you mean" namespaces (for failure results)
	Width       int      // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, suggestions []string) *Result {
	return &Result{
		Type:        ResultFailure,
		Title:       title,
		Error:       err,
		Suggestions: suggestions,
		Width:       GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := clampWidth(r.Width, nil)

	var lines []string
	if r.Type == ResultFailure {
		lines = append(lines, ErrorTitleStyle.Render(fmt.Sprintf("%s  %s", FailureMarker, r.Title)))
		if r.Error != nil {
			lines = append(lines, "", r.Error.Error())
		}
		if len(r.Suggestions) > 0 {
			lines = append(lines, "", SuggestionStyle.Render("Did you mean: "+strings.Join(r.Suggestions, ", ")+"?"))
			lines = append(lines, MutedStyle.Render("Namespaces are matched exactly, including case."))
		}
		return BoxStyle(width, ErrorColor).Render(strings.Join(lines, "\n"))
	}

	lines = append(lines, SuccessTitleStyle.Render(fmt.Sprintf("%s  %s", SuccessMarker, r.Title)))
	lines = append(lines, "")
	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+URLStyle.Render(d.Value))
	}
	return BoxStyle(width, SuccessColor).Render(strings.Join(lines, "\n"))
}
