package handler

import (
	"net/http"
	"strings"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

// parseOrderListOpts reads the wallet, status filter and paging shared by the
// recurring and trigger list endpoints. statuses holds the accepted filter
// values.
func parseOrderListOpts(r *http.Request, statuses []string) (domain.OrderListOpts, error) {
	return orderListOpts(r, r.URL.Query().Get("userPublicKey"), statuses)
}

func orderListOpts(r *http.Request, user string, statuses []string) (domain.OrderListOpts, error) {
	q := r.URL.Query()
	if user == "" {
		return domain.OrderListOpts{}, domain.Validation("Missing user public key")
	}
	if err := checkPublicKey(user); err != nil {
		return domain.OrderListOpts{}, err
	}

	status := q.Get("status")
	if status != "" && !validate.IsEnumMember(status, statuses) {
		return domain.OrderListOpts{}, domain.Validation(
			"Invalid status value. Must be one of: " + strings.Join(statuses, ", "))
	}

	page, err := parseListOpts(r, defaultListLimit)
	if err != nil {
		return domain.OrderListOpts{}, err
	}
	return domain.OrderListOpts{ListOpts: page, UserPublicKey: user, Status: status}, nil
}

// orderID prefers the {id} path segment and falls back to the body's id.
func orderID(r *http.Request, bodyID string) string {
	if id := pathParam(r, "id"); id != "" {
		return id
	}
	return strings.TrimSpace(bodyID)
}
