package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// PDFGenerator genera la representación imprimible de un pedido.
type PDFGenerator interface {
	Generate(doc Document) ([]byte, error)
}

// Document datos ya resueltos para imprimir un pedido de venta u orden de compra.
type Document struct {
	Issuer            string // nombre de la aplicación/empresa emisora
	Title             string // "PEDIDO DE VENTA" | "ORDEN DE COMPRA"
	Number            string
	Date              time.Time
	Status            string
	CounterpartyLabel string // "Cliente" | "Proveedor"
	CounterpartyName  string
	ContactName       string
	Phone             string
	Address           string
	Email             string
	Lines             []DocumentLine
	Total             decimal.Decimal
}

// DocumentLine línea impresa.
type DocumentLine struct {
	Code       string
	Name       string
	Quantity   int64
	UnitAmount decimal.Decimal
	Subtotal   decimal.Decimal
}
