package repositories

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
)

func writeTable(t *testing.T, dir, table, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, table+".json"), []byte(body), 0o600))
}

func TestJSONFileSource(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "courseDetails", `[
		{"course_id": "C1", "Courses": "Contract Law"},
		{"course_id": "C2", "Courses": "Torts"},
		{"course_id": 3, "Courses": "Numeric id"}
	]`)
	src := NewJSONFileSource(dir)
	ctx := context.Background()

	rows, err := src.Find(ctx, "courseDetails", "course_id", "C2")
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Record{{"course_id": "C2", "Courses": "Torts"}}, rows); diff != "" {
		t.Errorf("Find mismatch (-want +got):\n%s", diff)
	}

	rows, err = src.FindIn(ctx, "courseDetails", "course_id", []string{"C1", "3"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Contract Law", rows[0]["Courses"])
	assert.Equal(t, "Numeric id", rows[1]["Courses"])

	all, err := src.All(ctx, "courseDetails")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := src.Find(ctx, "courseDetails", "course_id", "c1")
	require.NoError(t, err)
	assert.Empty(t, none, "matching is case-sensitive")
	assert.NotNil(t, none)
}

func TestJSONFileSource_ReadsFreshDataEachCall(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "timeline", `[]`)
	src := NewJSONFileSource(dir)

	rows, err := src.All(context.Background(), "timeline")
	require.NoError(t, err)
	assert.Empty(t, rows)

	writeTable(t, dir, "timeline", `[{"Student_Id": "S1"}]`)
	rows, err = src.All(context.Background(), "timeline")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestJSONFileSource_Failures(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "broken", `{"not": "an array"`)
	src := NewJSONFileSource(dir)

	_, err := src.All(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	_, err = src.All(context.Background(), "broken")
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.All(ctx, "broken")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordRepository_FindByID(t *testing.T) {
	store := NewMemoryStore()
	store.Put(models.MentorsTable.Name,
		models.Record{"mentor_id": "M1", "name": "First"},
		models.Record{"mentor_id": "M1", "name": "Duplicate"},
	)
	repo := NewRecordRepository(store, models.MentorsTable)
	ctx := context.Background()

	got, err := repo.FindByID(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, "First", got["name"], "first match wins")

	missing, err := repo.FindByID(ctx, "M9")
	require.NoError(t, err)
	assert.Nil(t, missing)

	empty, err := repo.FindAllIn(ctx, "mentor_id", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	store.Put("t", models.Record{"k": "v"})

	rows, err := store.All(context.Background(), "t")
	require.NoError(t, err)
	rows[0]["k"] = "changed"

	again, err := store.All(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "v", again[0]["k"])
}

func TestMemoryStore_InsertUnique(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	unique := []string{"Email_Id"}

	require.NoError(t, store.Insert(ctx, "students", models.Record{"Email_Id": "a@x.com"}, unique))
	err := store.Insert(ctx, "students", models.Record{"Email_Id": "a@x.com"}, unique)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// blank unique values never collide
	require.NoError(t, store.Insert(ctx, "students", models.Record{"Name": "no email"}, unique))
	require.NoError(t, store.Insert(ctx, "students", models.Record{"Name": "no email either"}, unique))

	docs, err := store.List(ctx, "students")
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestMemoryStore_ConcurrentInsertSameKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var ok int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Insert(ctx, "profiles", models.Record{"Email_Id": "same@x.com"}, []string{"Email_Id"}) == nil {
				atomic.AddInt32(&ok, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
}

func TestMemoryStore_ReplaceTable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Put("t", models.Record{"a": 1.0})

	require.NoError(t, store.ReplaceTable(ctx, "t", []models.Record{{"b": 2.0}, {"c": 3.0}}))
	rows, err := store.All(ctx, "t")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NotContains(t, rows[0], "a")
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	user := &models.User{ID: "u1", Email: "asha@example.com", PasswordHash: "h1"}

	require.NoError(t, repo.Create(ctx, user))
	assert.ErrorIs(t, repo.Create(ctx, &models.User{ID: "u2", Email: "asha@example.com"}), apperrors.ErrEmailAlreadyExists)

	got, err := repo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.PasswordHash)

	require.NoError(t, repo.UpdatePassword(ctx, "u1", "h2"))
	got, err = repo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, "u9", "h"), apperrors.ErrUserNotFound)
}

func TestMatchValues(t *testing.T) {
	assert.Len(t, matchValues("S001"), 1)
	assert.Len(t, matchValues("101"), 2)
	assert.Len(t, matchValues("A", "2"), 3)
}

func TestPostgresQueries(t *testing.T) {
	sql, args, err := findRecordsQuery("studentProfile", "Student_Id", "ABC").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT body FROM records WHERE collection = $1 AND body->>$2 = $3 ORDER BY id", sql)
	assert.Equal(t, []interface{}{"studentProfile", "Student_Id", "ABC"}, args)

	sql, args, err = findRecordsInQuery("courseDetails", "course_id", []string{"CR1", "CR2"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT body FROM records WHERE collection = $1 AND body->>$2 = ANY($3) ORDER BY id", sql)
	assert.Equal(t, []interface{}{"courseDetails", "course_id", []string{"CR1", "CR2"}}, args)

	sql, _, err = selectBodies("documents", "students").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT body FROM documents WHERE collection = $1 ORDER BY id", sql)
}
