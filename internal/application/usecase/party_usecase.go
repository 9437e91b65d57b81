package usecase

import (
	"context"
	"net/mail"
	"strings"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// PartyUseCase CRUD de clientes o proveedores según kind.
type PartyUseCase struct {
	kind  entity.PartyKind
	repos repository.Repos
}

// NewPartyUseCase construye el caso de uso para un tipo de contraparte.
func NewPartyUseCase(kind entity.PartyKind, repos repository.Repos) *PartyUseCase {
	return &PartyUseCase{kind: kind, repos: repos}
}

func (uc *PartyUseCase) repo() repository.PartyRepository { return uc.repos.Parties(uc.kind) }

// Create registra una contraparte.
func (uc *PartyUseCase) Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error) {
	p := &entity.Party{Kind: uc.kind}
	if err := applyParty(p, in); err != nil {
		return nil, err
	}
	if err := uc.repo().Create(ctx, p); err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// GetByID obtiene una contraparte.
func (uc *PartyUseCase) GetByID(ctx context.Context, id int64) (*dto.PartyResponse, error) {
	p, err := uc.repo().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPartyResponse(p), nil
}

// Update reemplaza los datos de la contraparte.
func (uc *PartyUseCase) Update(ctx context.Context, id int64, in dto.PartyRequest) (*dto.PartyResponse, error) {
	p, err := uc.repo().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if err := applyParty(p, in); err != nil {
		return nil, err
	}
	if err := uc.repo().Update(ctx, p); err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// List lista contrapartes paginadas.
func (uc *PartyUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.PartyResponse, error) {
	page.DefaultPage()
	list, err := uc.repo().List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPartyResponse(p))
	}
	return out, nil
}

// Delete elimina la contraparte; domain.ErrInUse si tiene pedidos o productos asociados.
func (uc *PartyUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo().Delete(ctx, id)
}

func applyParty(p *entity.Party, in dto.PartyRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Invalid("name", "el nombre es obligatorio")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.Invalid("email", "correo inválido")
		}
	}
	p.Name = name
	p.ContactName = strings.TrimSpace(in.ContactName)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Address = strings.TrimSpace(in.Address)
	p.Email = email
	return nil
}

func toPartyResponse(p *entity.Party) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:          p.ID,
		Kind:        string(p.Kind),
		Name:        p.Name,
		ContactName: p.ContactName,
		Phone:       p.Phone,
		Address:     p.Address,
		Email:       p.Email,
	}
}
