package supabase

import (
	"context"
	"net/http"
	"net/url"
)

const preferMinimal = "return=minimal"

// DeleteAll removes every row of entity. The REST API refuses unfiltered
// deletes, so the filter matches any row with an id.
func (c *Client) DeleteAll(ctx context.Context, entity string) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   restPath + "/" + url.PathEscape(entity) + "?id=not.is.null",
		prefer: preferMinimal,
	})
}

// Insert bulk-inserts rows (a slice or a single row) without echoing them back.
func (c *Client) Insert(ctx context.Context, entity string, rows any) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   restPath + "/" + url.PathEscape(entity),
		prefer: preferMinimal,
		in:     rows,
	})
}
