package entity

// PartyKind distingue clientes de proveedores (contrapartes de los pedidos).
type PartyKind string

const (
	PartyClient   PartyKind = "cliente"
	PartySupplier PartyKind = "proveedor"
)

// Party representa un cliente o un proveedor.
// Para proveedores Name es la razón social (empresa) y ContactName el contacto principal.
type Party struct {
	ID          int64
	Kind        PartyKind
	Name        string
	ContactName string
	Phone       string
	Address     string
	Email       string
}
