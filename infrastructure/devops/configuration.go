package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type DBEntry struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Schema   string `yaml:"schema"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

var (
	once    sync.Once
	dbList  []DBEntry
	loadErr error
)

// LoadDBConfig fetches the tenant database list from the SSM parameter
// store, once per process.
func LoadDBConfig(ctx context.Context) ([]DBEntry, error) {
	once.Do(func() {
		paramName := "fieldsync-databases"

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter: %w", err)
			return
		}

		var parsed []DBEntry
		if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &parsed); err != nil {
			loadErr = fmt.Errorf("unmarshal yaml: %w", err)
			return
		}

		dbList = parsed
	})

	return dbList, loadErr
}

// ResolveDSN prefers the DSN environment variable and falls back to the
// SSM tenant list, selected by FIELDSYNC_TENANT.
func ResolveDSN(ctx context.Context) (string, error) {
	if dsn := os.Getenv("DSN"); dsn != "" {
		return dsn, nil
	}

	tenant := os.Getenv("FIELDSYNC_TENANT")
	if tenant == "" {
		return "", fmt.Errorf("neither DSN nor FIELDSYNC_TENANT is set")
	}

	entries, err := LoadDBConfig(ctx)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Name == tenant {
			return fmt.Sprintf("%s:%s@tcp(%s:3306)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				e.Username, e.Password, e.Host, e.Schema), nil
		}
	}
	return "", fmt.Errorf("tenant %q not found in database config", tenant)
}
