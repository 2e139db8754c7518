package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

type CheckoutService struct {
	catalog      *catalog.Catalog
	regions      *Regions
	activeRegion string
	gateways     map[GatewayName]Gateway
	tokens       TokenStore
	sessions     *Sessions
}

func NewCheckoutService(cat *catalog.Catalog, regions *Regions, activeRegion string, gateways []Gateway, tokens TokenStore, sessions *Sessions) (*CheckoutService, error) {
	if err := regions.Check(activeRegion); err != nil {
		return nil, err
	}

	byName := make(map[GatewayName]Gateway, len(gateways))
	for _, g := range gateways {
		byName[g.Name()] = g
	}

	return &CheckoutService{
		catalog:      cat,
		regions:      regions,
		activeRegion: activeRegion,
		gateways:     byName,
		tokens:       tokens,
		sessions:     sessions,
	}, nil
}

type StartSessionRequest struct {
	Service string `json:"service"`
	Locale  string `json:"locale"`
}

type StartSessionResponse struct {
	Snapshot
	CSRFToken string `json:"csrfToken"`
}

// StartSession opens a checkout for one service in the visitor's region
// and issues its CSRF token.
func (x *CheckoutService) StartSession(ctx context.Context, in *StartSessionRequest) (*StartSessionResponse, error) {

	service, err := x.catalog.Lookup(in.Service)
	if err != nil {
		return nil, err
	}
	if !service.Bookable() {
		return nil, ErrNotBookable
	}

	region, err := x.regions.Resolve(x.activeRegion, in.Locale)
	if err != nil {
		return nil, err
	}

	gateway, ok := x.gateways[region.Gateway]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNotConfigured, region.Gateway)
	}

	id := uuid.NewString()
	token, err := x.tokens.Issue(ctx, id)
	if err != nil {
		return nil, err
	}

	c := NewCheckout(id, service, region, gateway, x.tokens)
	x.sessions.Put(c)

	slog.Info("checkout session started", "session", id, "service", service.Name, "region", region.Name)

	return &StartSessionResponse{Snapshot: c.Snapshot(), CSRFToken: token}, nil
}

func (x *CheckoutService) Session(id string) (*Checkout, error) {
	return x.sessions.Get(id)
}

// Services lists the catalog for the services page.
func (x *CheckoutService) Services() []catalog.Service {
	return x.catalog.All()
}
