package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/database"
	"github.com/mrlokans/online-library/internal/entities"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{
			Driver: config.DatabaseDriverSQLite,
			Path:   filepath.Join(t.TempDir(), "library.db"),
		},
		Auth: config.Auth{BcryptCost: 4},
	}
}

func TestCreateUserCommand_ParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		want    entities.UserRole
	}{
		{name: "defaults to USER", args: []string{"-username", "alice", "-password", "password123"}, want: entities.UserRoleUser},
		{name: "role is case insensitive", args: []string{"-username", "root", "-password", "password123", "-role", "admin"}, want: entities.UserRoleAdmin},
		{name: "missing username", args: []string{"-password", "password123"}, wantErr: "-username"},
		{name: "missing password", args: []string{"-username", "alice"}, wantErr: "-password"},
		{name: "bad role", args: []string{"-username", "alice", "-password", "password123", "-role", "EDITOR"}, wantErr: "invalid -role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCreateUserCommand(testConfig(t))
			err := cmd.ParseFlags(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Role)
		})
	}
}

func TestCreateUserCommand_Run(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	cmd := NewCreateUserCommand(cfg)
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-username", "root", "-password", "password123", "-role", "ADMIN"}))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), `Created ADMIN user "root"`)

	db, err := database.NewDatabase(cfg.Database, nil)
	require.NoError(t, err)
	defer db.Close()
	user, err := auth.NewService(db.DB, cfg.Auth).Authenticate("root", "password123")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleAdmin, user.Role)

	again := NewCreateUserCommand(cfg)
	again.Out = &out
	require.NoError(t, again.ParseFlags([]string{"-username", "root", "-password", "password123"}))
	assert.True(t, errors.Is(again.Run(), auth.ErrUserExists))
}
