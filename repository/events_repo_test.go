package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpcomingFilter(t *testing.T) {
	startOfToday := time.Date(2025, 8, 10, 18, 30, 0, 0, time.UTC)

	t.Run("matches on end_date or, absent one, on date", func(t *testing.T) {
		filter := upcomingFilter(startOfToday, "")
		or, ok := filter["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 2)

		withEnd := or[0].(bson.M)
		assert.Equal(t, bson.M{"$gte": startOfToday}, withEnd["end_date"])

		withoutEnd := or[1].(bson.M)
		assert.Equal(t, bson.M{"$exists": false}, withoutEnd["end_date"])
		assert.Equal(t, bson.M{"$gte": startOfToday}, withoutEnd["date"])
	})

	t.Run("type filter narrows the match", func(t *testing.T) {
		filter := upcomingFilter(startOfToday, "workshop")
		assert.Equal(t, "workshop", filter["type"])

		filter = upcomingFilter(startOfToday, "")
		_, present := filter["type"]
		assert.False(t, present)
	})
}

func TestPastFilter(t *testing.T) {
	startOfTomorrow := time.Date(2025, 8, 11, 18, 30, 0, 0, time.UTC)

	filter := pastFilter(startOfTomorrow)
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	withEnd := or[0].(bson.M)
	assert.Equal(t, bson.M{"$lt": startOfTomorrow}, withEnd["end_date"])

	withoutEnd := or[1].(bson.M)
	assert.Equal(t, bson.M{"$exists": false}, withoutEnd["end_date"])
	assert.Equal(t, bson.M{"$lt": startOfTomorrow}, withoutEnd["date"])
}

func TestRegisterFilter(t *testing.T) {
	eventID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("capped events guard the participant count", func(t *testing.T) {
		filter := registerFilter(eventID, userID, 25)

		assert.Equal(t, eventID, filter["_id"])
		assert.Equal(t, bson.M{"$ne": userID}, filter["registered_participants"])

		expr, ok := filter["$expr"].(bson.M)
		require.True(t, ok)
		lt, ok := expr["$lt"].(bson.A)
		require.True(t, ok)
		require.Len(t, lt, 2)
		assert.Equal(t, 25, lt[1])

		size := lt[0].(bson.M)
		assert.Equal(t, bson.M{"$ifNull": bson.A{"$registered_participants", bson.A{}}}, size["$size"])
	})

	t.Run("uncapped events skip the count guard", func(t *testing.T) {
		filter := registerFilter(eventID, userID, 0)
		_, present := filter["$expr"]
		assert.False(t, present)
		assert.Equal(t, bson.M{"$ne": userID}, filter["registered_participants"])
	})
}
