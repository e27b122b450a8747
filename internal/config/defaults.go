package config

// Default configuration values.
const (
	DefaultLogLevel    = "info"
	DefaultOutput      = "table"
	DefaultHistoryPath = ".leapdb/history.db"
	DefaultLocale      = "en-US"
	DefaultMaxRows     = 200
	DefaultConnection  = "default"
)

// defaultPorts holds the well-known port of network databases.
var defaultPorts = map[string]int{
	"postgres": 5432,
	"mysql":    3306,
}

// ApplyDefaults fills the schema and port of a connection from its type.
func (c *ConnectionConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.Schema == "" {
		c.Schema = DefaultSchemaForType(c.Type)
	}
	if c.Port == 0 {
		c.Port = defaultPorts[c.Type]
	}
}
