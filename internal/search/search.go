// Package search filters already-fetched listings in memory.
//
// Filters never touch a store and never reorder their input. A blank query
// returns the input unchanged, otherwise matches are returned in input order.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/dtroode/memoria-server/internal/model"
)

// FilterPosts keeps posts whose title, description or date contains query,
// ignoring case.
func FilterPosts(posts []model.Post, query string) []model.Post {
	needle := fold(strings.TrimSpace(query))
	if needle == "" {
		return posts
	}

	matched := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if contains(p.Title, needle) || contains(p.Desc, needle) || contains(p.Date, needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// FilterUsers keeps users whose name or email contains query, ignoring case.
func FilterUsers(users []model.User, query string) []model.User {
	needle := fold(strings.TrimSpace(query))
	if needle == "" {
		return users
	}

	matched := make([]model.User, 0, len(users))
	for _, u := range users {
		if contains(u.Name, needle) || contains(u.Email, needle) {
			matched = append(matched, u)
		}
	}
	return matched
}

func contains(field, needle string) bool {
	return strings.Contains(fold(field), needle)
}

// fold uses Unicode case folding so non-Latin scripts compare correctly.
// A fresh Caser per call keeps the filters safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}
