package entity

import "time"

// StorageLocation representa una ubicación física de almacenamiento
// (bodega, pasillo o zona) donde se reciben lotes.
type StorageLocation struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}
