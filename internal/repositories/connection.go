package repositories

import (
	"sync"

	"gorm.io/gorm"

	"github.com/alktbihd/mentalhealth/internal/utils"
)

// ConnectionStatus is the lifecycle state of the store connection.
type ConnectionStatus string

const (
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
)

// Connection owns the process-wide database handle. The connection is
// established asynchronously at startup; callers must go through DB, which
// only hands out the handle in the connected state. A failed connection
// leaves the service running in degraded mode rather than exiting.
type Connection struct {
	mu     sync.RWMutex
	db     *gorm.DB
	status ConnectionStatus
	logger utils.Logger
}

func NewConnection(logger utils.Logger) *Connection {
	return &Connection{
		status: StatusConnecting,
		logger: logger,
	}
}

// ConnectAsync establishes the connection in the background using the
// provided opener. The status transitions to connected or disconnected when
// the attempt finishes.
func (c *Connection) ConnectAsync(open func() (*gorm.DB, error)) {
	go func() {
		db, err := open()
		if err != nil {
			c.mu.Lock()
			c.status = StatusDisconnected
			c.mu.Unlock()
			c.logger.Warn("database connection failed, continuing without persistence", "error", err)
			return
		}

		c.mu.Lock()
		c.db = db
		c.status = StatusConnected
		c.mu.Unlock()
		c.logger.Info("connected to database")
	}()
}

// SetConnected installs an already-open handle. Used by tests and by callers
// that connect synchronously.
func (c *Connection) SetConnected(db *gorm.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = db
	c.status = StatusConnected
}

// Status reports the current lifecycle state.
func (c *Connection) Status() ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// DB returns the handle when connected, ErrStoreUnavailable otherwise.
func (c *Connection) DB() (*gorm.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.status != StatusConnected {
		return nil, ErrStoreUnavailable
	}
	return c.db, nil
}

// Close tears down the underlying connection pool on shutdown.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusConnected || c.db == nil {
		c.status = StatusDisconnected
		return nil
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.status = StatusDisconnected
	return sqlDB.Close()
}
