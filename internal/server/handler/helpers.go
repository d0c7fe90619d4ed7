package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

const (
	maxBodyBytes = 1 << 20

	defaultListLimit = 10
	maxListLimit     = 100

	genericErrorMessage = "An unexpected error occurred"
)

// Options carries the settings every handler shares.
type Options struct {
	Logger    *slog.Logger
	Validator *validate.Validator
	// DevMode exposes 5xx error messages to clients.
	DevMode bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// base holds the shared pieces embedded in every handler.
type base struct {
	logger *slog.Logger
	v      *validate.Validator
	dev    bool
	now    func() time.Time
}

func newBase(opts Options) base {
	b := base{logger: opts.Logger, v: opts.Validator, dev: opts.DevMode, now: opts.Now}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.v == nil {
		b.v = validate.New()
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// errorResponse is the envelope of every failed request.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"status":"error","message":"`+genericErrorMessage+`"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteError sends the error envelope.
func WriteError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: msg})
}

// fail maps err to a response. domain.ErrNotFound anywhere in the chain
// becomes a 404 with notFoundMsg. Server-side failures are logged and, outside
// development mode, their message is replaced with a generic one.
func (b *base) fail(w http.ResponseWriter, r *http.Request, op string, err error, notFoundMsg string) {
	var e *domain.Error
	if errors.Is(err, domain.ErrNotFound) {
		if notFoundMsg == "" {
			notFoundMsg = "Resource not found"
		}
		e = domain.NotFound(notFoundMsg)
	} else {
		e = domain.AsError(err)
	}

	msg := e.Message
	if e.Status >= http.StatusInternalServerError {
		b.logger.ErrorContext(r.Context(), "handler: "+op+" failed",
			slog.String("error", err.Error()),
			slog.Int("status", e.Status),
		)
		if !b.dev {
			msg = genericErrorMessage
		}
	}
	WriteError(w, e.Status, msg)
}

// invalid writes a 400 with msg.
func invalid(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusBadRequest, msg)
}

// decodeBody decodes a JSON request body into dst. An empty body leaves dst
// untouched. Any syntax or type error yields "Invalid request body".
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.Validation("Invalid request body")
	}
	return nil
}

// Numeric is a request field that accepts either a JSON number or a string.
// Other JSON values are kept as their raw text so they fail numeric checks
// with the field's own message rather than a body decode error.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Numeric(strings.TrimSpace(s))
		return nil
	}
	*n = Numeric(text)
	return nil
}

func (n Numeric) String() string { return string(n) }

// parseListOpts extracts limit and offset from the query string. Missing
// values default to limit=defaultListLimit and offset=0; present values must
// be integers with limit in [1, maxListLimit] and offset >= 0.
func parseListOpts(r *http.Request, defaultLimit int) (domain.ListOpts, error) {
	q := r.URL.Query()
	errBadPaging := domain.Validation("Limit and offset must be positive numbers")

	opts := domain.ListOpts{Limit: defaultLimit}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			return domain.ListOpts{}, errBadPaging
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return domain.ListOpts{}, errBadPaging
		}
		opts.Offset = n
	}
	return opts, nil
}

// pathParam extracts a named path parameter using Go 1.22+ routing.
func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}

// checkTokenPair validates the input and output token addresses.
func checkTokenPair(input, output string) error {
	if !validate.IsTokenAddress(input) {
		return domain.Validation("Invalid input token address format")
	}
	if !validate.IsTokenAddress(output) {
		return domain.Validation("Invalid output token address format")
	}
	return nil
}

// checkAmount validates a positive amount.
func checkAmount(amount Numeric) error {
	if !validate.IsPositiveAmount(amount.String()) {
		return domain.Validation("Amount must be a positive number")
	}
	return nil
}

// checkPublicKey validates a wallet public key.
func checkPublicKey(key string) error {
	if !validate.IsTokenAddress(key) {
		return domain.Validation("Invalid Solana public key format")
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// parseOptionalDate parses v when non-empty, reporting msg on failure.
func parseOptionalDate(v, msg string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	t, err := validate.ParseDate(v)
	if err != nil {
		return nil, domain.Validation(msg)
	}
	return &t, nil
}
