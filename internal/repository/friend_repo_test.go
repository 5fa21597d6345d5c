package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/repository"
)

func TestUpsertPendingRequestResetsTerminalRow(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	ids := seedUsers(t, gdb, 2)
	repo := repository.NewFriendRepository(gdb)

	require.NoError(t, repo.UpsertPendingRequest(ctx, ids[0], ids[1]))

	request, err := repo.GetPendingRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	require.NotNil(t, request)

	// Decline it, then request again: same row flips back to PENDING.
	require.NoError(t, repo.ResolveRequest(ctx, request.ID, db.FriendRequestDeclined))

	pending, err := repo.GetPendingRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.Nil(t, pending)

	require.NoError(t, repo.UpsertPendingRequest(ctx, ids[0], ids[1]))

	pending, err = repo.GetPendingRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, request.ID, pending.ID)
	assert.Nil(t, pending.RespondedAt)

	var count int64
	require.NoError(t, gdb.Model(&db.FriendRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAcceptRequestCreatesCanonicalFriendship(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	ids := seedUsers(t, gdb, 2)
	repo := repository.NewFriendRepository(gdb)

	// Request from the higher id so canonical ordering is exercised.
	require.NoError(t, repo.UpsertPendingRequest(ctx, ids[1], ids[0]))
	request, err := repo.GetPendingRequest(ctx, ids[1], ids[0])
	require.NoError(t, err)
	require.NotNil(t, request)

	require.NoError(t, repo.AcceptRequest(ctx, request.ID, ids[0], ids[1]))

	friendship, err := repo.GetFriendship(ctx, ids[1], ids[0])
	require.NoError(t, err)
	require.NotNil(t, friendship)
	assert.Less(t, friendship.User1ID, friendship.User2ID)

	// Accepting again (replayed request) must not duplicate the friendship.
	require.NoError(t, repo.AcceptRequest(ctx, request.ID, ids[1], ids[0]))

	var count int64
	require.NoError(t, gdb.Model(&db.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListPendingRequestsByDirection(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	ids := seedUsers(t, gdb, 3)
	repo := repository.NewFriendRepository(gdb)

	require.NoError(t, repo.UpsertPendingRequest(ctx, ids[1], ids[0]))
	require.NoError(t, repo.UpsertPendingRequest(ctx, ids[2], ids[0]))
	require.NoError(t, repo.UpsertPendingRequest(ctx, ids[0], ids[2]))

	incoming, err := repo.ListPendingRequests(ctx, ids[0], repository.DirectionIncoming)
	require.NoError(t, err)
	assert.Len(t, incoming, 2)
	for _, request := range incoming {
		assert.Equal(t, ids[0], request.AddresseeID)
		assert.NotZero(t, request.Requester.ID)
	}

	outgoing, err := repo.ListPendingRequests(ctx, ids[0], repository.DirectionOutgoing)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, ids[2], outgoing[0].AddresseeID)
	assert.NotZero(t, outgoing[0].Addressee.ID)
}

func TestListFriendshipsEitherSlot(t *testing.T) {
	ctx := context.Background()
	gdb := setupDB(t)
	ids := seedUsers(t, gdb, 3)
	repo := repository.NewFriendRepository(gdb)

	for _, other := range ids[1:] {
		require.NoError(t, repo.UpsertPendingRequest(ctx, other, ids[0]))
		request, err := repo.GetPendingRequest(ctx, other, ids[0])
		require.NoError(t, err)
		require.NoError(t, repo.AcceptRequest(ctx, request.ID, ids[0], other))
	}

	friendships, err := repo.ListFriendships(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, friendships, 2)

	others := map[uint64]bool{}
	for _, f := range friendships {
		others[f.OtherUserID(ids[0])] = true
	}
	assert.True(t, others[ids[1]])
	assert.True(t, others[ids[2]])
}
