// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// filter.go compiles a sparse PostFilter into a single conjunctive
// WHERE clause. Absent fields contribute no clause; soft-deleted posts
// are always excluded.
package store

import (
	"fmt"
	"strings"

	"inkpress/internal/models"
)

// compileFilter renders the WHERE clause for f with placeholders
// numbered from argStart, returning the clause (including the leading
// "WHERE") and its args. The clause always excludes soft-deleted rows,
// even for a zero filter.
func compileFilter(f *models.PostFilter, argStart int) (string, []any) {
	clauses := []string{"NOT p.is_deleted"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", argStart+len(args)-1)
	}

	if f != nil {
		if f.Search != "" {
			// Case-insensitive substring match over title and content.
			// The trigram indexes serve this for searches of three or
			// more characters; shorter ones fall back to a scan with
			// identical matching semantics.
			p := arg("%" + escapeLike(f.Search) + "%")
			clauses = append(clauses, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s)", p, p))
		}

		if f.Status != "" {
			clauses = append(clauses, fmt.Sprintf("p.status = %s", arg(string(f.Status))))
		}

		if f.CategoryID != nil {
			clauses = append(clauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = %s)",
				arg(*f.CategoryID)))
		}

		if len(f.TagIDs) > 0 {
			ph := make([]string, len(f.TagIDs))
			for i, id := range f.TagIDs {
				ph[i] = arg(id)
			}
			clauses = append(clauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id IN (%s))",
				strings.Join(ph, ", ")))
		}

		if f.PublishedAfter != nil {
			clauses = append(clauses, fmt.Sprintf("p.published_at >= %s", arg(*f.PublishedAfter)))
		}
		if f.PublishedBefore != nil {
			clauses = append(clauses, fmt.Sprintf("p.published_at <= %s", arg(*f.PublishedBefore)))
		}

		if f.AuthorID != nil {
			clauses = append(clauses, fmt.Sprintf("p.author_id = %s", arg(*f.AuthorID)))
		}
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes the LIKE metacharacters in a user search string.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
