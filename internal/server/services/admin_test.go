package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_SetAdminAndBanned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.addUser(t, models.User{Username: "root", IsAdmin: true}, "pw")
	f.users.Put(models.User{Username: "bob"})

	u, err := f.admin.SetAdmin(ctx, &root, "bob", true)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	u, err = f.admin.SetBanned(ctx, &root, "bob", true)
	require.NoError(t, err)
	assert.True(t, u.Banned)
	assert.True(t, u.IsAdmin, "other fields survive")

	_, err = f.admin.SetAdmin(ctx, &root, "ghost", true)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAdminService_ConcurrentWritesKeepOtherFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.addUser(t, models.User{Username: "root", IsAdmin: true, Verified: true}, "pw")

	const n = 20
	for i := 0; i < n; i++ {
		f.addUser(t, models.User{Username: fmt.Sprintf("banned%d", i)}, "pw")
		f.addUser(t, models.User{Username: fmt.Sprintf("verified%d", i)}, "pw")
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		banned, verified := fmt.Sprintf("banned%d", i), fmt.Sprintf("verified%d", i)
		wg.Add(4)
		go func() {
			defer wg.Done()
			_, err := f.admin.SetAdmin(ctx, &root, banned, true)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.admin.SetBanned(ctx, &root, banned, true)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.admin.SetAdmin(ctx, &root, verified, true)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.gate.VerifyWithPasscode(ctx, verified, "pw", "A")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		u, _ := f.users.Get(fmt.Sprintf("banned%d", i))
		assert.True(t, u.IsAdmin && u.Banned, u.Username)
		u, _ = f.users.Get(fmt.Sprintf("verified%d", i))
		assert.True(t, u.IsAdmin && u.Verified, u.Username)
	}
}

func TestAdminService_SetBannedAfterStaleRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.addUser(t, models.User{Username: "root", IsAdmin: true}, "pw")
	f.addUser(t, models.User{Username: "bob"}, "pw")

	bob, err := f.directory.Require(ctx, "bob")
	require.NoError(t, err)

	_, err = f.admin.SetBanned(ctx, &root, "bob", true)
	require.NoError(t, err)
	u, err := f.admin.SetAdmin(ctx, &root, bob.Username, true)
	require.NoError(t, err)

	assert.True(t, u.Banned, "single-flag write keeps the ban")
	assert.True(t, u.IsAdmin)
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bob := f.addUser(t, models.User{Username: "bob", Verified: true}, "pw")
	bannedAdmin := f.addUser(t, models.User{Username: "eve", IsAdmin: true, Banned: true}, "pw")

	for _, actor := range []*models.User{nil, &bob, &bannedAdmin} {
		_, err := f.admin.SetAdmin(ctx, actor, "bob", true)
		assert.Equal(t, common.ErrorUnauthorized, err)
		_, err = f.admin.SetBanned(ctx, actor, "bob", true)
		assert.Equal(t, common.ErrorUnauthorized, err)
		_, err = f.admin.RenameUser(ctx, actor, "bob", "robert")
		assert.Equal(t, common.ErrorUnauthorized, err)
		assert.Equal(t, common.ErrorUnauthorized, f.admin.DeleteUser(ctx, actor, "bob"))
	}

	stored, _ := f.users.Get("bob")
	assert.False(t, stored.IsAdmin)
}

func TestAdminService_RenameAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	root := f.addUser(t, models.User{Username: "root", IsAdmin: true}, "pw")
	f.users.Put(models.User{Username: "bob"})
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	u, err := f.admin.RenameUser(ctx, &root, "bob", "robert")
	require.NoError(t, err)
	assert.Equal(t, "robert", u.Username)

	require.NoError(t, f.admin.DeleteUser(ctx, &root, "robert"))
	_, ok := f.users.Get("robert")
	assert.False(t, ok)
	require.NoError(t, f.mock.ExpectationsWereMet())
}
