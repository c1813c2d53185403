package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "engagementctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"migrate", "reconcile", "seed"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	reconcile, _, err := cmd.Find([]string{"reconcile"})
	require.NoError(t, err)
	repair := reconcile.Flags().Lookup("repair")
	require.NotNil(t, repair)
	assert.Equal(t, "false", repair.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "yaml", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedAndReconcile(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "engagement.db")
	db := []string{"--driver", "sqlite", "--dsn", dsn}

	_, err := execute(t, append(db, "migrate")...)
	require.NoError(t, err)

	out, err := execute(t, append(db, "--format", "json", "seed", "--users", "6", "--posts", "4")...)
	require.NoError(t, err)
	var seeded SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &seeded))
	assert.Equal(t, 6, seeded.Users)
	assert.Equal(t, 4, seeded.Posts)

	out, err = execute(t, append(db, "reconcile")...)
	require.NoError(t, err)
	assert.Contains(t, out, "no drift")

	// 人为制造偏差
	store, closeFn, err := openStore(context.Background(), &RootOptions{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	ids, err := store.Posts.ListIDs(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.NoError(t, store.Posts.SetCounts(context.Background(), ids[0], 99, 99))
	closeFn()

	out, err = execute(t, append(db, "--format", "json", "reconcile")...)
	require.NoError(t, err)
	var res ReconcileResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Drifts, 1)
	assert.Equal(t, ids[0], res.Drifts[0].PostID)
	assert.Equal(t, 0, res.Fixed)

	out, err = execute(t, append(db, "--format", "json", "reconcile", "--repair")...)
	require.NoError(t, err)
	res = ReconcileResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Fixed)

	out, err = execute(t, append(db, "reconcile")...)
	require.NoError(t, err)
	assert.Contains(t, out, "no drift")
}
