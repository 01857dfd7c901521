package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/database"
	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/logger"
)

// CreateUserCommand adds an account directly to the database. It is the
// only way besides AUTH_ADMIN_USERNAME to create an ADMIN.
type CreateUserCommand struct {
	Username string
	Password string
	Email    string
	Role     entities.UserRole

	Database config.Database
	Auth     config.Auth
	Out      io.Writer
}

// NewCreateUserCommand takes database and hashing settings from cfg.
func NewCreateUserCommand(cfg *config.Config) *CreateUserCommand {
	return &CreateUserCommand{
		Database: cfg.Database,
		Auth:     cfg.Auth,
		Out:      os.Stdout,
	}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	var role string
	fs.StringVar(&cmd.Username, "username", "", "Username (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 8 characters (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address")
	fs.StringVar(&role, "role", string(entities.UserRoleUser), "Role: ADMIN, AUTHOR or USER")
	fs.StringVar(&cmd.Database.Path, "db", cmd.Database.Path, "Path to the SQLite database (ignored for postgres)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a library account. The database connection is taken from the\n")
		fmt.Fprintf(os.Stderr, "DATABASE_* environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username root -password 's3cret-pass' -role ADMIN\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}
	parsed, err := entities.ParseUserRole(role)
	if err != nil {
		return fmt.Errorf("invalid -role %q: must be ADMIN, AUTHOR or USER", role)
	}
	cmd.Role = parsed

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.Database, logger.NewLogger("cli", "warn"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(db.DB, cmd.Auth)
	user, err := service.CreateUser(cmd.Username, cmd.Email, cmd.Password, cmd.Role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Created %s user %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}
