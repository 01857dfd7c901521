package config

const (
	// DefaultDatabasePath is the default SQLite database file
	DefaultDatabasePath = "./library.db"

	// DefaultUploadDir is where uploaded book files are written
	DefaultUploadDir = "./uploads"

	// DefaultAllowedOrigin is the development frontend address
	DefaultAllowedOrigin = "http://localhost:5173"
)
