package domain

import "time"

// Connection describes a target PostgreSQL endpoint registered with the
// console. Password holds the AES-GCM ciphertext when read from the
// metastore; it is never serialized to API responses.
type Connection struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Host      string     `json:"host"`
	Port      int        `json:"port"`
	Database  string     `json:"database"`
	Username  string     `json:"username"`
	Password  string     `json:"-"`
	Secure    bool       `json:"secure"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ConnectionUpdate carries a partial update: nil fields are left unchanged.
type ConnectionUpdate struct {
	Name     *string
	Host     *string
	Port     *int
	Database *string
	Username *string
	Password *string
	Secure   *bool
}

// Validate checks the fields required to reach a target database.
func (c *Connection) Validate() error {
	if c.Name == "" {
		return ErrValidation("connection name is required")
	}
	if c.Host == "" {
		return ErrValidation("host is required")
	}
	if c.Database == "" {
		return ErrValidation("database is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return ErrValidation("port must be between 1 and 65535")
	}
	return nil
}

// ApplyDefaults fills defaulted fields on a new connection.
func (c *Connection) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 5432
	}
}
