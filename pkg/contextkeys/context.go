package contextkeys

// Custom key type avoids collisions with other context users.
type contextKey string

// DBContextKey is the gin context key holding the request-scoped *gorm.DB.
// Tests put a transaction on the request context under the same key and the
// DB middleware prefers it over the pool handle.
const DBContextKey = contextKey("db")
