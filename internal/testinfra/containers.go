// Package testinfra starts the backing database container for local
// development and end-to-end runs. Expects environment variables to be
// loaded from .env files.
package testinfra

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/mandoxxdev/crm-catalog/data"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Containers holds the started infrastructure.
type Containers struct {
	DBContainer testcontainers.Container
	DBHost      string
	DBPort      string
}

// Terminate tears the containers down.
func (tc *Containers) Terminate(ctx context.Context) {
	if tc.DBContainer != nil {
		_ = tc.DBContainer.Terminate(ctx)
	}
}

// StartDatabase starts a MariaDB container per DB_* environment variables
// and applies the embedded init DDL.
func StartDatabase(ctx context.Context) (*Containers, error) {
	image := getenv("DB_IMAGE", "mariadb:11")
	portValue := getenv("DB_PORT", "3306")
	database := getenv("DB_DATABASE", "catalog")
	user := getenv("DB_USER", "catalog")
	password := getenv("DB_PASSWORD", "catalog")
	rootPassword := getenv("DB_ROOT_PASSWORD", "root")

	tcpPort, err := nat.NewPort("tcp", portValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": rootPassword,
				"MARIADB_DATABASE":      database,
				"MARIADB_USER":          user,
				"MARIADB_PASSWORD":      password,
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start database container: %w", err)
	}

	tc := &Containers{DBContainer: container}

	host, err := container.Host(ctx)
	if err != nil {
		tc.Terminate(ctx)
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		tc.Terminate(ctx)
		return nil, err
	}
	tc.DBHost = host
	tc.DBPort = mapped.Port()

	if err := initSchema(tc, database, rootPassword); err != nil {
		tc.Terminate(ctx)
		return nil, err
	}

	return tc, nil
}

// initSchema applies the embedded DDL statements as root.
func initSchema(tc *Containers, database, rootPassword string) error {
	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/%s?multiStatements=true",
		rootPassword, tc.DBHost, tc.DBPort, database)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open init connection: %w", err)
	}
	defer db.Close()

	for _, script := range []string{data.InitdbMariaDBTables, data.InitdbMariaDBPrivileges} {
		for _, stmt := range strings.Split(script, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("init statement failed: %w", err)
			}
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
