package database

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `Lab\_1`, EscapeLike("Lab_1"))
	assert.Equal(t, `100\% done`, EscapeLike("100% done"))
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
	assert.Equal(t, "Physics Lab", EscapeLike("Physics Lab"))
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"Go"}, nonNil([]string{"Go"}))
}

// testStore connects to TEST_DB_URL, a database migrated with sql/schema.
func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DB_URL")
	if url == "" {
		t.Skip("Skipping database test; TEST_DB_URL not set in environment")
	}
	db, err := sql.Open("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func createStudent(t *testing.T, s *Store) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := s.db.QueryRowContext(context.Background(),
		`INSERT INTO users (role, name, email, section) VALUES ('STUDENT', 'Test Student', $1, 'A') RETURNING id`,
		uuid.NewString()+"@example.com",
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestStore_MergeSkillProfileConcurrent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	studentID := createStudent(t, s)

	skills := []string{"Go", "SQL", "Docker", "Kubernetes", "Terraform", "Python"}
	var wg sync.WaitGroup
	for _, skill := range skills {
		wg.Add(1)
		go func(skill string) {
			defer wg.Done()
			_, err := s.MergeSkillProfile(ctx, studentID, func(existing SkillProfile) SkillProfile {
				existing.Skills = append(existing.Skills, skill)
				return existing
			})
			assert.NoError(t, err)
		}(skill)
	}
	wg.Wait()

	profile, err := s.GetSkillProfile(ctx, studentID)
	require.NoError(t, err)
	assert.ElementsMatch(t, skills, profile.Skills)
}
