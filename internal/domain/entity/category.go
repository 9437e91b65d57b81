package entity

// Category clasificación de productos.
type Category struct {
	ID          int64
	Name        string // único
	Description string
}
