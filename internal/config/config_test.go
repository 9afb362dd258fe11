package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/callback", cfg.Server.BasePath)
	assert.Equal(t, "memory", cfg.Storage.Mode)
	assert.Equal(t, "wxgateway", cfg.Storage.MongoDB.Database)
	assert.Equal(t, "oa", cfg.Platform.Name)
	assert.Equal(t, 15*time.Minute, cfg.Dedup.Window)
	assert.Equal(t, "@every 10m", cfg.Dedup.SweepSchedule)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_ADMIN_KEY", "sekrit")
	t.Setenv("TEST_MONGO_URI", "mongodb://db:27017")

	cfg, err := Load(writeConfig(t, `
server:
  adminKey: ${TEST_ADMIN_KEY}
storage:
  mode: mongodb
  mongodb:
    uri: ${TEST_MONGO_URI}
`))
	require.NoError(t, err)
	assert.Equal(t, "sekrit", cfg.Server.AdminKey)
	assert.Equal(t, "mongodb://db:27017", cfg.Storage.MongoDB.URI)
}

func TestLoad_TenantSeeds(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
platform:
  name: work
storage:
  mode: memory
  tenants:
    - id: ww1
      token: tok
      encodingAESKey: abcdefghijklmnopqrstuvwxyz0123456789ABCDEFG
      receiverId: wwCORP
      agentId: 1000002
`))
	require.NoError(t, err)
	require.Len(t, cfg.Storage.Tenants, 1)
	assert.Equal(t, "ww1", cfg.Storage.Tenants[0].ID)
	assert.Equal(t, int64(1000002), cfg.Storage.Tenants[0].AgentID)
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "mongodb without uri",
			yaml:    "storage:\n  mode: mongodb\n",
			wantErr: "storage.mongodb.uri is required",
		},
		{
			name:    "unknown storage mode",
			yaml:    "storage:\n  mode: etcd\n",
			wantErr: "storage.mode",
		},
		{
			name:    "unknown platform",
			yaml:    "platform:\n  name: weibo\n",
			wantErr: "platform.name",
		},
		{
			name:    "tenant without token",
			yaml:    "storage:\n  tenants:\n    - id: t1\n",
			wantErr: "token is required",
		},
		{
			name:    "short aes key",
			yaml:    "storage:\n  tenants:\n    - id: t1\n      token: x\n      encodingAESKey: tooshort\n",
			wantErr: "43 characters",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
