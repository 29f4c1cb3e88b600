package feedinglogs

import "context"

// Source es lo único que el motor de ranking necesita del Log Store:
// una lectura acotada de todos los logs visibles.
type Source interface {
	ListVisible(ctx context.Context) ([]FeedingLog, error)
}

// Store agrega escritura; la usan el seed de dev y los tests.
type Store interface {
	Source
	Create(ctx context.Context, l FeedingLog) error
}
