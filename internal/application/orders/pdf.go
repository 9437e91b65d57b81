package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// PDF genera el documento imprimible del pedido y su nombre de archivo.
//
// Retorna domain.ErrNotFound si el pedido no existe.
func (s *Service) PDF(ctx context.Context, id int64) (pdfBytes []byte, filename string, err error) {
	if s.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	o, err := s.reload(ctx, s.repos.Orders(s.kind), id)
	if err != nil {
		return nil, "", err
	}
	party, err := s.repos.Parties(s.kind.CounterpartyKind()).GetByID(ctx, o.CounterpartyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener contraparte: %w", err)
	}
	if party == nil {
		return nil, "", fmt.Errorf("%w: %s %d", domain.ErrNotFound, s.kind.CounterpartyKind(), o.CounterpartyID)
	}

	doc := Document{
		Issuer:           s.issuer,
		Number:           o.Number,
		Date:             o.Date,
		Status:           s.kind.StatusLabel(o.Status),
		CounterpartyName: party.Name,
		ContactName:      party.ContactName,
		Phone:            party.Phone,
		Address:          party.Address,
		Email:            party.Email,
		Total:            o.Total(),
	}
	if s.kind == entity.OrderPurchase {
		doc.Title, doc.CounterpartyLabel = "ORDEN DE COMPRA", "Proveedor"
	} else {
		doc.Title, doc.CounterpartyLabel = "PEDIDO DE VENTA", "Cliente"
	}
	for _, l := range o.Lines {
		line := DocumentLine{
			Name:       l.ProductName,
			Quantity:   l.Quantity,
			UnitAmount: l.UnitAmount,
			Subtotal:   l.Subtotal().Round(2),
		}
		if p, err := s.repos.Products().GetByID(ctx, l.ProductID); err == nil && p != nil {
			line.Code = p.Code
		}
		doc.Lines = append(doc.Lines, line)
	}

	pdfBytes, err = s.pdf.Generate(doc)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, o.Number + ".pdf", nil
}
