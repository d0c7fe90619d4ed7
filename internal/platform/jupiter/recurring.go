package jupiter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateRecurring creates a recurring payment upstream.
func (c *Client) CreateRecurring(ctx context.Context, p CreateRecurringParams) (APIRecurring, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/recurring", p)
	if err != nil {
		return APIRecurring{}, fmt.Errorf("jupiter: create recurring: %w", err)
	}
	rec, err := decode[APIRecurring](body, "recurring payment")
	if err != nil {
		return APIRecurring{}, fmt.Errorf("jupiter: create recurring: %w", err)
	}
	return rec, nil
}

// ListRecurring returns a wallet's recurring payments.
func (c *Client) ListRecurring(ctx context.Context, p OrderListParams) (APIRecurringList, error) {
	body, err := c.doGet(ctx, "/recurring?"+orderListQuery(p))
	if err != nil {
		return APIRecurringList{}, fmt.Errorf("jupiter: list recurring: %w", err)
	}
	list, err := decode[APIRecurringList](body, "recurring list")
	if err != nil {
		return APIRecurringList{}, fmt.Errorf("jupiter: list recurring: %w", err)
	}
	return list, nil
}

// UpdateRecurring changes a recurring payment. Empty fields are omitted.
func (c *Client) UpdateRecurring(ctx context.Context, id string, p UpdateRecurringParams) (APIRecurring, error) {
	body, err := c.doJSON(ctx, http.MethodPut, "/recurring/"+url.PathEscape(id), p)
	if err != nil {
		return APIRecurring{}, fmt.Errorf("jupiter: update recurring %s: %w", id, err)
	}
	rec, err := decode[APIRecurring](body, "recurring payment")
	if err != nil {
		return APIRecurring{}, fmt.Errorf("jupiter: update recurring %s: %w", id, err)
	}
	return rec, nil
}

// CancelRecurring cancels a recurring payment.
func (c *Client) CancelRecurring(ctx context.Context, id string) (APIRecurring, error) {
	body, err := c.doJSON(ctx, http.MethodDelete, "/recurring/"+url.PathEscape(id), nil)
	if err != nil {
		return APIRecurring{}, fmt.Errorf("jupiter: cancel recurring %s: %w", id, err)
	}
	rec, err := decode[APIRecurring](body, "recurring payment")
	if err != nil {
		return APIRecurring{}, fmt.Errorf("jupiter: cancel recurring %s: %w", id, err)
	}
	return rec, nil
}
