package marketplace

import (
	"context"
	"net/http"
)

// ListCards enumerates every product card of the cabinet by walking the
// cursor-paginated listing to completion.
//
// The endpoint returns a page of cards plus a cursor (updatedAt and
// nmID of the last card) and the total count it matched. The walk
// requests pages of the configured size and continues from the returned
// cursor while the reported total is at least the page size; a short or
// empty page ends the walk. A missing cursor with more pages reported
// is a contract violation and surfaces as ErrCursorMissing rather than
// silently re-requesting the first page forever. The shared limiter
// paces consecutive page fetches.
func (c *Client) ListCards(ctx context.Context, token string) ([]Card, error) {
	var (
		all    []Card
		cursor cardListCursor
	)
	cursor.Limit = c.pageSize

	for {
		req := cardListRequest{
			Settings: cardListSettings{
				Cursor: cursor,
				Filter: cardListFilter{WithPhoto: -1},
			},
		}

		var page cardListResponse
		if err := c.do(ctx, token, http.MethodPost, "/content/v2/get/cards/list", req, &page); err != nil {
			return nil, err
		}
		if err := envelopeError(page.errEnvelope); err != nil {
			return nil, err
		}

		all = append(all, page.Cards...)

		if page.Cursor.Total < c.pageSize || len(page.Cards) == 0 {
			return all, nil
		}
		if page.Cursor.UpdatedAt == "" && page.Cursor.NmID == 0 {
			return nil, ErrCursorMissing
		}

		cursor = cardListCursor{
			Limit:     c.pageSize,
			UpdatedAt: page.Cursor.UpdatedAt,
			NmID:      page.Cursor.NmID,
		}
	}
}
