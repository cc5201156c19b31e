// Package checkout walks a user through shipping, payment and review, then
// turns the cart into an order.
package checkout

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/pricing"
	"go.uber.org/zap"
)

type CartSource interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) (*cart.View, error)
}

type OrderPlacer interface {
	Place(ctx context.Context, userID string, items []domain.CartItem, summary pricing.Summary) (*domain.Order, error)
}

// State is what the checkout page renders: progress plus the live quote.
type State struct {
	Session         *Session                 `json:"session"`
	Items           []domain.CartItem        `json:"items"`
	Summary         pricing.Summary          `json:"summary"`
	ShippingOptions []pricing.ShippingOption `json:"shipping_options"`
}

type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	placing  map[string]bool
	carts    CartSource
	orders   OrderPlacer
	log      *logger.Logger
	now      func() time.Time
}

func NewService(carts CartSource, orders OrderPlacer, log *logger.Logger) *Service {
	return &Service{
		sessions: make(map[string]*Session),
		placing:  make(map[string]bool),
		carts:    carts,
		orders:   orders,
		log:      log,
		now:      time.Now,
	}
}

// session returns a copy of the user's session, creating it on first use.
func (s *Service) session(userID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.sessionLocked(userID)
}

func (s *Service) sessionLocked(userID string) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = newSession(userID, s.now())
		s.sessions[userID] = sess
	}
	return sess
}

func (s *Service) update(userID string, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing[userID] {
		return Session{}, fmt.Errorf("%w: order is being placed", ErrIllegalStep)
	}
	sess := s.sessionLocked(userID)
	if err := fn(sess); err != nil {
		return Session{}, err
	}
	return *sess, nil
}

func (s *Service) State(ctx context.Context, userID string) (*State, error) {
	return s.state(ctx, s.session(userID))
}

func (s *Service) state(ctx context.Context, sess Session) (*State, error) {
	c, err := s.carts.GetCart(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &State{
		Session:         &sess,
		Items:           c.Items,
		Summary:         pricing.Quote(c.Items, c.PromoCode, sess.ShippingMethod),
		ShippingOptions: pricing.ShippingOptions(),
	}, nil
}

// GoTo moves to step if it is reachable from the current one.
func (s *Service) GoTo(ctx context.Context, userID string, step Step) (*State, error) {
	sess, err := s.update(userID, func(sess *Session) error {
		if !sess.reachable(step) {
			return fmt.Errorf("%w: %s to %s", ErrIllegalStep, sess.Step, step)
		}
		sess.moveTo(step, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.state(ctx, sess)
}

// SubmitShipping stores the address and shipping method and advances to
// payment. Every address field is required.
func (s *Service) SubmitShipping(ctx context.Context, userID string, info ShippingInfo, method string) (*State, error) {
	if field := info.missing(); field != "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(info.Email)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, info.Email)
	}
	m, err := pricing.ParseShippingMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShipping, method)
	}

	sess, err := s.update(userID, func(sess *Session) error {
		sess.Shipping = &info
		sess.ShippingMethod = m
		sess.moveTo(StepPayment, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.state(ctx, sess)
}

// SubmitPayment records the payment method and advances to review.
func (s *Service) SubmitPayment(ctx context.Context, userID, method string, sameAsBilling bool) (*State, error) {
	pm := PaymentMethod(strings.ToLower(strings.TrimSpace(method)))
	if pm != PaymentCard && pm != PaymentPayPal {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPayment, method)
	}

	sess, err := s.update(userID, func(sess *Session) error {
		if sess.Shipping == nil {
			return fmt.Errorf("%w: shipping details required before payment", ErrIllegalStep)
		}
		sess.Payment = pm
		sess.SameAsBilling = sameAsBilling
		sess.moveTo(StepReview, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.state(ctx, sess)
}

// PlaceOrder turns the reviewed cart into an order, empties the cart and
// starts a fresh checkout session.
func (s *Service) PlaceOrder(ctx context.Context, userID string) (*domain.Order, error) {
	sess, err := s.beginPlacing(userID)
	if err != nil {
		return nil, err
	}
	defer s.endPlacing(userID)

	c, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	summary := pricing.Quote(c.Items, c.PromoCode, sess.ShippingMethod)
	order, err := s.orders.Place(ctx, userID, c.Items, summary)
	if err != nil {
		return nil, err
	}

	if _, err := s.carts.ClearCart(ctx, userID); err != nil {
		s.log.Error("clear cart after order failed", zap.String("user_id", userID), zap.String("order_id", order.ID), zap.Error(err))
	}

	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()

	return order, nil
}

// beginPlacing claims the user's session for a single PlaceOrder call. A
// second call while the first is in flight fails with ErrIllegalStep.
func (s *Service) beginPlacing(userID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing[userID] {
		return Session{}, fmt.Errorf("%w: order is already being placed", ErrIllegalStep)
	}
	sess := s.sessionLocked(userID)
	if sess.Step != StepReview {
		return Session{}, fmt.Errorf("%w: order can only be placed from review", ErrIllegalStep)
	}
	s.placing[userID] = true
	return *sess, nil
}

func (s *Service) endPlacing(userID string) {
	s.mu.Lock()
	delete(s.placing, userID)
	s.mu.Unlock()
}
