// Package lists fetches recommendation list pages, enriches items with
// generated explanations, and filters them with user-supplied expressions.
package lists
