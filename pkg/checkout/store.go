// Package checkout is the client-held checkout session: the selected plan,
// the shipping address and the state of the current payment attempt.
package checkout

import (
	"encoding/json"
	"log/slog"
	"maps"
	"sync"

	"github.com/tbeaudouin05/otmens-intake/pkg/intake"
)

// StorageKey is where the persisted subset of the session lives.
const StorageKey = "checkout-storage"

const persistVersion = 0

type Step string

const (
	StepProduct      Step = "product"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

type PaymentStatus string

const (
	StatusIdle       PaymentStatus = "idle"
	StatusProcessing PaymentStatus = "processing"
	StatusSucceeded  PaymentStatus = "succeeded"
	StatusFailed     PaymentStatus = "failed"
)

// Product is the plan the patient picked. Price is in minor units.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PriceID     string            `json:"priceId"`
	Price       int64             `json:"price"`
	Currency    string            `json:"currency"`
	Interval    string            `json:"interval,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (p *Product) clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Metadata = maps.Clone(p.Metadata)
	return &cp
}

type State struct {
	CurrentStep                  Step
	SelectedProduct              *Product
	ShippingAddress              *intake.ShippingAddress
	BillingAddressSameAsShipping bool
	PaymentIntentID              string
	PaymentStatus                PaymentStatus
	Error                        string
}

func initialState() State {
	return State{
		CurrentStep:                  StepProduct,
		BillingAddressSameAsShipping: true,
		PaymentStatus:                StatusIdle,
	}
}

// persisted is the subset that survives a reload. Payment fields are left
// out so a stale attempt never blocks a new one.
type persisted struct {
	Version int `json:"version"`
	State   struct {
		SelectedProduct              *Product                `json:"selectedProduct"`
		ShippingAddress              *intake.ShippingAddress `json:"shippingAddress"`
		BillingAddressSameAsShipping bool                    `json:"billingAddressSameAsShipping"`
	} `json:"state"`
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	state   State
	storage intake.Storage
}

// NewStore rehydrates the persisted subset from storage, if any.
func NewStore(storage intake.Storage) *Store {
	s := &Store{state: initialState(), storage: storage}
	raw, ok := storage.Get(StorageKey)
	if !ok {
		return s
	}
	var p persisted
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.Warn("discarding malformed checkout state", "err", err)
		return s
	}
	s.state.SelectedProduct = p.State.SelectedProduct
	s.state.ShippingAddress = p.State.ShippingAddress
	s.state.BillingAddressSameAsShipping = p.State.BillingAddressSameAsShipping
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.SelectedProduct = st.SelectedProduct.clone()
	if st.ShippingAddress != nil {
		a := *st.ShippingAddress
		st.ShippingAddress = &a
	}
	return st
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.persistLocked()
}

func (s *Store) persistLocked() {
	var p persisted
	p.Version = persistVersion
	p.State.SelectedProduct = s.state.SelectedProduct
	p.State.ShippingAddress = s.state.ShippingAddress
	p.State.BillingAddressSameAsShipping = s.state.BillingAddressSameAsShipping
	b, err := json.Marshal(p)
	if err != nil {
		slog.Error("error persisting checkout state", "err", err)
		return
	}
	s.storage.Set(StorageKey, string(b))
}

func (s *Store) SetSelectedProduct(p *Product) {
	s.update(func(st *State) { st.SelectedProduct = p.clone() })
}

func (s *Store) SetShippingAddress(a intake.ShippingAddress) {
	s.update(func(st *State) { st.ShippingAddress = &a })
}

func (s *Store) SetBillingAddressSameAsShipping(same bool) {
	s.update(func(st *State) { st.BillingAddressSameAsShipping = same })
}

func (s *Store) SetPaymentIntentID(id string) {
	s.update(func(st *State) { st.PaymentIntentID = id })
}

func (s *Store) SetPaymentStatus(status PaymentStatus) {
	s.update(func(st *State) { st.PaymentStatus = status })
}

func (s *Store) SetError(msg string) {
	s.update(func(st *State) { st.Error = msg })
}

func (s *Store) SetCurrentStep(step Step) {
	s.update(func(st *State) { st.CurrentStep = step })
}

// Reset restores every field to its initial value, persisted ones included.
func (s *Store) Reset() {
	s.update(func(st *State) { *st = initialState() })
}
