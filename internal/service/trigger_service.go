package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/platform/jupiter"
)

// TriggerService manages trigger orders held upstream.
type TriggerService struct {
	api    TriggerAPI
	logger *slog.Logger
}

// NewTriggerService creates a TriggerService.
func NewTriggerService(api TriggerAPI, logger *slog.Logger) *TriggerService {
	return &TriggerService{api: api, logger: logger}
}

// Create quotes the order and then creates it carrying that quote.
func (s *TriggerService) Create(ctx context.Context, req domain.CreateTriggerRequest) (domain.TriggerOrder, error) {
	q, err := fetchQuote(ctx, s.api, domain.QuoteRequest{
		InputToken:  req.InputToken,
		OutputToken: req.OutputToken,
		Amount:      req.Amount,
		SlippageBps: DefaultSlippageBps,
	})
	if err != nil {
		return domain.TriggerOrder{}, fmt.Errorf("trigger_service: quote: %w", err)
	}

	expiry := req.ExpiryDate
	order, err := s.api.CreateTrigger(ctx, jupiter.CreateTriggerParams{
		InputMint:     req.InputToken,
		OutputMint:    req.OutputToken,
		Amount:        req.Amount,
		TriggerPrice:  req.TriggerPrice,
		TriggerType:   string(req.TriggerType),
		UserPublicKey: req.UserPublicKey,
		ExpiryDate:    formatDate(&expiry),
		QuoteResponse: q.Raw,
	})
	if err != nil {
		return domain.TriggerOrder{}, fmt.Errorf("trigger_service: create: %w", err)
	}

	o := order.ToDomainTrigger()
	o.Quote = &q
	s.logger.InfoContext(ctx, "trigger_service: created",
		slog.String("id", o.ID),
		slog.String("trigger_type", string(o.TriggerType)),
	)
	return o, nil
}

// List returns a page of a wallet's trigger orders.
func (s *TriggerService) List(ctx context.Context, opts domain.OrderListOpts) (domain.TriggerList, error) {
	list, err := s.api.ListTriggers(ctx, orderListParams(opts))
	if err != nil {
		return domain.TriggerList{}, fmt.Errorf("trigger_service: list: %w", err)
	}

	orders := make([]domain.TriggerOrder, 0, len(list.Orders))
	for i := range list.Orders {
		orders = append(orders, list.Orders[i].ToDomainTrigger())
	}
	return domain.TriggerList{
		Orders:     orders,
		Pagination: domain.Pagination{Limit: opts.Limit, Offset: opts.Offset, Total: list.Total},
	}, nil
}

// Update changes the non-empty fields of req.
func (s *TriggerService) Update(ctx context.Context, req domain.UpdateTriggerRequest) (domain.TriggerOrder, error) {
	order, err := s.api.UpdateTrigger(ctx, req.ID, jupiter.UpdateTriggerParams{
		TriggerPrice: req.TriggerPrice,
		ExpiryDate:   formatDate(req.ExpiryDate),
	})
	if err != nil {
		return domain.TriggerOrder{}, fmt.Errorf("trigger_service: update %q: %w", req.ID, err)
	}
	return order.ToDomainTrigger(), nil
}

// Cancel cancels a trigger order.
func (s *TriggerService) Cancel(ctx context.Context, id string) (domain.TriggerOrder, error) {
	order, err := s.api.CancelTrigger(ctx, id)
	if err != nil {
		return domain.TriggerOrder{}, fmt.Errorf("trigger_service: cancel %q: %w", id, err)
	}
	s.logger.InfoContext(ctx, "trigger_service: cancelled", slog.String("id", id))
	return order.ToDomainTrigger(), nil
}
