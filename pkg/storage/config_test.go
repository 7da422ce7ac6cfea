package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stagedoc/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{Region: "ap-northeast-2"}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, storage.ProviderS3, cfg.Provider)
	assert.Equal(t, "20MB", cfg.MaxObjectSize)
	assert.Equal(t, int64(20_000_000), cfg.MaxObjectBytes())
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONN", "override-connection")
	t.Setenv("TEST_MAX", "5MiB")

	env := &storage.Env{
		Provider:         "TEST_PROVIDER",
		ConnectionString: "TEST_CONN",
		MaxObjectSize:    "TEST_MAX",
	}

	cfg := storage.Config{}
	require.NoError(t, cfg.Finalize(env))

	assert.Equal(t, storage.ProviderAzure, cfg.Provider)
	assert.Equal(t, "override-connection", cfg.ConnectionString)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxObjectBytes())
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "gcs"},
			wantErr: "unknown provider",
		},
		{
			name:    "s3 without region",
			cfg:     storage.Config{Provider: storage.ProviderS3},
			wantErr: "region required",
		},
		{
			name:    "s3 with half a key pair",
			cfg:     storage.Config{Region: "us-east-1", AccessKeyID: "id"},
			wantErr: "must be set together",
		},
		{
			name:    "azure without credentials",
			cfg:     storage.Config{Provider: storage.ProviderAzure},
			wantErr: "connection_string or account_url required",
		},
		{
			name:    "invalid size",
			cfg:     storage.Config{Region: "us-east-1", MaxObjectSize: "lots"},
			wantErr: "invalid max_object_size",
		},
		{
			name: "azure with account url",
			cfg:  storage.Config{Provider: storage.ProviderAzure, AccountURL: "https://acct.blob.core.windows.net/"},
		},
		{
			name: "s3 with default credential chain",
			cfg:  storage.Config{Region: "us-east-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Provider:      storage.ProviderS3,
		Region:        "us-east-1",
		MaxObjectSize: "20MB",
	}

	overlay := storage.Config{Region: "eu-west-1", Endpoint: "http://minio:9000"}
	base.Merge(&overlay)

	assert.Equal(t, storage.ProviderS3, base.Provider)
	assert.Equal(t, "eu-west-1", base.Region)
	assert.Equal(t, "http://minio:9000", base.Endpoint)
	assert.Equal(t, "20MB", base.MaxObjectSize)
}
