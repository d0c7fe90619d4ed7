package jupiter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CreateTrigger creates a trigger order upstream.
func (c *Client) CreateTrigger(ctx context.Context, p CreateTriggerParams) (APITrigger, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/trigger", p)
	if err != nil {
		return APITrigger{}, fmt.Errorf("jupiter: create trigger: %w", err)
	}
	order, err := decode[APITrigger](body, "trigger order")
	if err != nil {
		return APITrigger{}, fmt.Errorf("jupiter: create trigger: %w", err)
	}
	return order, nil
}

// ListTriggers returns a wallet's trigger orders.
func (c *Client) ListTriggers(ctx context.Context, p OrderListParams) (APITriggerList, error) {
	body, err := c.doGet(ctx, "/trigger?"+orderListQuery(p))
	if err != nil {
		return APITriggerList{}, fmt.Errorf("jupiter: list triggers: %w", err)
	}
	list, err := decode[APITriggerList](body, "trigger list")
	if err != nil {
		return APITriggerList{}, fmt.Errorf("jupiter: list triggers: %w", err)
	}
	return list, nil
}

// UpdateTrigger changes a trigger order. Empty fields are omitted.
func (c *Client) UpdateTrigger(ctx context.Context, id string, p UpdateTriggerParams) (APITrigger, error) {
	body, err := c.doJSON(ctx, http.MethodPut, "/trigger/"+url.PathEscape(id), p)
	if err != nil {
		return APITrigger{}, fmt.Errorf("jupiter: update trigger %s: %w", id, err)
	}
	order, err := decode[APITrigger](body, "trigger order")
	if err != nil {
		return APITrigger{}, fmt.Errorf("jupiter: update trigger %s: %w", id, err)
	}
	return order, nil
}

// CancelTrigger cancels a trigger order.
func (c *Client) CancelTrigger(ctx context.Context, id string) (APITrigger, error) {
	body, err := c.doJSON(ctx, http.MethodDelete, "/trigger/"+url.PathEscape(id), nil)
	if err != nil {
		return APITrigger{}, fmt.Errorf("jupiter: cancel trigger %s: %w", id, err)
	}
	order, err := decode[APITrigger](body, "trigger order")
	if err != nil {
		return APITrigger{}, fmt.Errorf("jupiter: cancel trigger %s: %w", id, err)
	}
	return order, nil
}

func orderListQuery(p OrderListParams) string {
	params := url.Values{}
	params.Set("userPublicKey", p.UserPublicKey)
	params.Set("limit", strconv.Itoa(p.Limit))
	params.Set("offset", strconv.Itoa(p.Offset))
	if p.Status != "" {
		params.Set("status", p.Status)
	}
	return params.Encode()
}
