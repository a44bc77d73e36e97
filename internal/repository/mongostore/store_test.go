package mongostore

import (
	"ClipHub/internal/repository"
	"ClipHub/internal/repository/repotest"
	"ClipHub/pkg/mongodb"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 需要真实的MongoDB，设置 MONGODB_TEST_URI 才会跑
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	newStore := func(t *testing.T) repository.Store {
		ctx := context.Background()
		client, err := mongodb.InitMongo(ctx, uri)
		require.NoError(t, err)

		dbName := "cliphub_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		st := New(client, dbName)
		require.NoError(t, EnsureIndexes(ctx, st))

		t.Cleanup(func() {
			_ = client.Database(dbName).Drop(context.Background())
			_ = st.Close(context.Background())
		})
		return st
	}

	repotest.Run(t, repotest.Harness{
		NewStore:  newStore,
		MissingID: primitive.NewObjectID().Hex(),
	})
}

func TestObjectID(t *testing.T) {
	_, err := objectID("not-hex")
	require.ErrorIs(t, err, repository.ErrNotFound)

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex())
	require.NoError(t, err)
	require.Equal(t, oid, got)
}
