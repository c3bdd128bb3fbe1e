package lock

import domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"

// ErrTimeout is returned when a key stays held for longer than the caller
// is willing to wait.
var ErrTimeout = domain.ErrLockTimeout

var (
	_ domain.Locker = (*KeyedMutex)(nil)
	_ domain.Locker = (*RedisLocker)(nil)
)
