package store

import (
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"

	"modelhub/models"
)

var testBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func Test_buildSelectVisibleModelsQuery_Anonymous(t *testing.T) {
	query, args, err := buildSelectVisibleModelsQuery(testBuilder, "")
	require.NoError(t, err)

	// anonymous callers only see public models
	require.Len(t, args, 1)
	require.Equal(t, true, args[0])

	q := strings.ToLower(query)
	require.Contains(t, q, "from models m")
	require.Contains(t, q, "join users u")
	require.Contains(t, q, "is_public")
	require.NotContains(t, q, "m.user_id =")
	require.Contains(t, q, "order by m.created_at desc")

	// placeholder format should be $1 (Postgres)
	require.Contains(t, query, "$1")
}

func Test_buildSelectVisibleModelsQuery_Authenticated(t *testing.T) {
	query, args, err := buildSelectVisibleModelsQuery(testBuilder, "u-1")
	require.NoError(t, err)

	require.Len(t, args, 2)
	require.Equal(t, "u-1", args[1])

	q := strings.ToLower(query)
	require.Contains(t, q, "is_public")
	require.Contains(t, q, "or")
	require.Contains(t, q, "m.user_id")
}

func Test_buildSelectModelsByOwnerQuery(t *testing.T) {
	query, args, err := buildSelectModelsByOwnerQuery(testBuilder, "u-1")
	require.NoError(t, err)

	require.Len(t, args, 1)
	require.Equal(t, "u-1", args[0])

	q := strings.ToLower(query)
	require.Contains(t, q, "select count(*) from hotspots")
	require.Contains(t, q, "order by m.updated_at desc")

	// key columns present
	for _, c := range []string{"m.id", "m.name", "m.is_public", "m.file_path", "u.username"} {
		require.Contains(t, q, c)
	}
}

func Test_buildUpdateModelQuery_OnlySetFields(t *testing.T) {
	name := "Renamed"
	now := time.Now()

	query, args, err := buildUpdateModelQuery(testBuilder, "m-1", models.ModelUpdate{Name: &name}, now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update models")
	require.Contains(t, q, "updated_at")
	require.Contains(t, q, "name")
	require.NotContains(t, q, "description")
	require.NotContains(t, q, "is_public")
	require.NotContains(t, q, "thumbnail_path")

	// updated_at, name, model ID
	require.Len(t, args, 3)
	require.Equal(t, "m-1", args[len(args)-1])
}

func Test_buildUpdateModelQuery_EmptyUpdateStillTouches(t *testing.T) {
	query, args, err := buildUpdateModelQuery(testBuilder, "m-1", models.ModelUpdate{}, time.Now())
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "updated_at")
	require.Len(t, args, 2)
}

func Test_buildTouchModelQuery(t *testing.T) {
	now := time.Now()
	query, args, err := buildTouchModelQuery(testBuilder, "m-1", now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update models")
	require.Contains(t, q, "set updated_at")

	require.Len(t, args, 2)
	require.Equal(t, now, args[0])
	require.Equal(t, "m-1", args[1])
}

func Test_buildUpdateHotspotQuery_ScopedToModel(t *testing.T) {
	name := "valve"
	position := "0m 1m 0m"

	query, args, err := buildUpdateHotspotQuery(testBuilder, "m-1", "h-1", models.HotspotUpdate{
		Name:     &name,
		Position: &position,
	})
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update hotspots")
	require.Contains(t, q, "name")
	require.Contains(t, q, "position")
	require.NotContains(t, q, "content")

	// both the hotspot ID and the parent model ID constrain the UPDATE
	require.Contains(t, q, "id =")
	require.Contains(t, q, "model_id =")
	require.Len(t, args, 4)
}
