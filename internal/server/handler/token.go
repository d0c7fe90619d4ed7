package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

// defaultTokenListLimit is the token list page size when none is given.
const defaultTokenListLimit = 50

// TokenService defines the token lookups the token handler needs.
type TokenService interface {
	Get(ctx context.Context, address string) (domain.Token, error)
	List(ctx context.Context, opts domain.TokenListOpts) (domain.TokenList, error)
}

// TokenHandler serves token metadata endpoints.
type TokenHandler struct {
	base
	tokens TokenService
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(tokens TokenService, opts Options) *TokenHandler {
	return &TokenHandler{base: newBase(opts), tokens: tokens}
}

// Info returns metadata for one token.
// GET /token/info/{tokenAddress}
func (h *TokenHandler) Info(w http.ResponseWriter, r *http.Request) {
	addr := pathParam(r, "tokenAddress")
	if !validate.IsTokenAddress(addr) {
		invalid(w, "Invalid token address format")
		return
	}

	tok, err := h.tokens.Get(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "token info", err, "Token not found")
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

// List returns a page of tokens.
// GET /token/list?limit=50&offset=0&search=...&tags=a,b&verified=true
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	serveTokenList(&h.base, h.tokens, w, r, "token list")
}

// serveTokenList is shared with the legacy /swap/tokens route.
func serveTokenList(b *base, tokens TokenService, w http.ResponseWriter, r *http.Request, op string) {
	opts, err := parseTokenListOpts(r)
	if err != nil {
		b.fail(w, r, op, err, "")
		return
	}

	list, err := tokens.List(r.Context(), opts)
	if err != nil {
		b.fail(w, r, op, err, "")
		return
	}
	if list.Tokens == nil {
		list.Tokens = []domain.Token{}
	}
	writeJSON(w, http.StatusOK, list)
}

func parseTokenListOpts(r *http.Request) (domain.TokenListOpts, error) {
	page, err := parseListOpts(r, defaultTokenListLimit)
	if err != nil {
		return domain.TokenListOpts{}, err
	}
	q := r.URL.Query()
	opts := domain.TokenListOpts{
		ListOpts: page,
		Search:   strings.TrimSpace(q.Get("search")),
	}

	for _, tag := range strings.Split(q.Get("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			opts.Tags = append(opts.Tags, tag)
		}
	}

	switch v := q.Get("verified"); v {
	case "":
	case "true", "false":
		verified := v == "true"
		opts.Verified = &verified
	default:
		return domain.TokenListOpts{}, domain.Validation("Verified must be true or false")
	}
	return opts, nil
}
