package jupiter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// TokenListParams filters a token list request.
type TokenListParams struct {
	Limit    int
	Offset   int
	Search   string
	Tags     []string
	Verified *bool
}

// GetToken returns metadata for a single mint.
func (c *Client) GetToken(ctx context.Context, mint string) (APIToken, error) {
	body, err := c.doGet(ctx, "/tokens/"+url.PathEscape(mint))
	if err != nil {
		return APIToken{}, fmt.Errorf("jupiter: get token %s: %w", mint, err)
	}
	tok, err := decode[APIToken](body, "token")
	if err != nil {
		return APIToken{}, fmt.Errorf("jupiter: get token %s: %w", mint, err)
	}
	return tok, nil
}

// ListTokens returns a page of tokens.
func (c *Client) ListTokens(ctx context.Context, p TokenListParams) (APITokenList, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(p.Limit))
	params.Set("offset", strconv.Itoa(p.Offset))
	if p.Search != "" {
		params.Set("search", p.Search)
	}
	if len(p.Tags) > 0 {
		params.Set("tags", strings.Join(p.Tags, ","))
	}
	if p.Verified != nil {
		params.Set("verified", strconv.FormatBool(*p.Verified))
	}

	body, err := c.doGet(ctx, "/tokens?"+params.Encode())
	if err != nil {
		return APITokenList{}, fmt.Errorf("jupiter: list tokens: %w", err)
	}
	list, err := decode[APITokenList](body, "token list")
	if err != nil {
		return APITokenList{}, fmt.Errorf("jupiter: list tokens: %w", err)
	}
	return list, nil
}
