package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"dictado/internal/database"
	"dictado/internal/models"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.ConnectionConfig{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testEntry(id, word string) *models.VocabularyEntry {
	return &models.VocabularyEntry{
		ID:        id,
		Word:      word,
		POS:       "noun",
		Meaning:   "a " + word,
		Example:   "The " + word + " was there.",
		DateAdded: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestVocabularyCreateAndGet(t *testing.T) {
	repo := NewVocabularyRepository(openTestDB(t))
	ctx := context.Background()

	entry := testEntry("w1", "harbor")
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, "w1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Word != "harbor" || got.Meaning != "a harbor" {
		t.Errorf("got %+v", got)
	}
	if got.LastStudied != nil {
		t.Error("fresh entry should have nil LastStudied")
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id error = %v, want ErrNotFound", err)
	}
}

func TestVocabularyUpdateStudyStats(t *testing.T) {
	repo := NewVocabularyRepository(openTestDB(t))
	ctx := context.Background()

	entry := testEntry("w1", "harbor")
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatal(err)
	}

	entry.RecordStudy(80, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	if err := repo.UpdateStudyStats(ctx, entry); err != nil {
		t.Fatalf("UpdateStudyStats: %v", err)
	}

	got, err := repo.GetByID(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TimesStudied != 1 || got.AverageAccuracy != 80 {
		t.Errorf("stats = %d studies, %.1f avg", got.TimesStudied, got.AverageAccuracy)
	}
	if got.LastStudied == nil {
		t.Fatal("LastStudied not persisted")
	}
}

func TestVocabularyImportBatchKeepsStats(t *testing.T) {
	repo := NewVocabularyRepository(openTestDB(t))
	ctx := context.Background()

	entry := testEntry("w1", "harbor")
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatal(err)
	}
	entry.RecordStudy(90, time.Now())
	if err := repo.UpdateStudyStats(ctx, entry); err != nil {
		t.Fatal(err)
	}

	// Re-import the same word with a corrected meaning plus one new word.
	updated := testEntry("w1", "harbor")
	updated.Meaning = "a sheltered port"
	if err := repo.ImportBatch(ctx, []*models.VocabularyEntry{updated, testEntry("w2", "anchor")}); err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}

	got, err := repo.GetByID(ctx, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Meaning != "a sheltered port" {
		t.Errorf("meaning not updated: %s", got.Meaning)
	}
	if got.TimesStudied != 1 {
		t.Errorf("re-import reset study stats: %d", got.TimesStudied)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("entries = %d, want 2", len(all))
	}
}

func TestHistorySaveAndList(t *testing.T) {
	repo := NewHistoryRepository(openTestDB(t))
	ctx := context.Background()

	started := time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC)
	completed := started.Add(12 * time.Minute)
	accuracy := 85
	submitted := "harbour"
	expected := "harbor"

	record := &models.SessionRecord{
		Session: models.Session{
			ID:          "s1",
			StartedAt:   started,
			CompletedAt: &completed,
			Difficulty:  models.DifficultyIntermediate,
			Words: []models.SessionWordResult{
				{WordID: "w1", Word: "harbor", Accuracy: &accuracy,
					Submitted: &submitted, Expected: &expected, Completed: true},
				{WordID: "w2", Word: "anchor"},
			},
			TotalWords:      2,
			CompletedWords:  1,
			TotalAccuracy:   85,
			AverageAccuracy: 85,
		},
		DurationMinutes: 12,
		Date:            "2026-03-05",
	}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	got := records[0]
	if got.ID != "s1" || got.Date != "2026-03-05" || got.DurationMinutes != 12 {
		t.Errorf("record = %+v", got)
	}
	if len(got.Words) != 2 {
		t.Fatalf("word results = %d, want 2", len(got.Words))
	}
	if got.Words[0].Accuracy == nil || *got.Words[0].Accuracy != 85 {
		t.Error("accuracy not round-tripped")
	}
	if got.Words[0].Submitted == nil || *got.Words[0].Submitted != "harbour" {
		t.Error("submitted answer not round-tripped")
	}
	if got.Words[1].Accuracy != nil {
		t.Error("unanswered word should have nil accuracy")
	}
}

func TestAchievementSaveIsIdempotent(t *testing.T) {
	repo := NewAchievementRepository(openTestDB(t))
	ctx := context.Background()

	a := &models.Achievement{
		ID: "first_session", Name: "First Steps",
		Description: "Complete your first study session", Icon: "star",
		EarnedAt: time.Date(2026, 3, 5, 14, 12, 0, 0, time.UTC), SessionID: "s1",
	}
	if err := repo.Save(ctx, a); err != nil {
		t.Fatal(err)
	}
	dup := *a
	dup.SessionID = "s2"
	if err := repo.Save(ctx, &dup); err != nil {
		t.Fatal(err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("achievements = %d, want 1", len(list))
	}
	if list[0].SessionID != "s1" {
		t.Errorf("duplicate save overwrote original: %s", list[0].SessionID)
	}
}

func TestStudyTimeAccumulates(t *testing.T) {
	repo := NewStudyTimeRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Add(ctx, 12); err != nil {
		t.Fatal(err)
	}
	if err := repo.Add(ctx, 8); err != nil {
		t.Fatal(err)
	}

	total, err := repo.Total(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 20 {
		t.Errorf("total = %d, want 20", total)
	}

	if err := repo.Set(ctx, 5); err != nil {
		t.Fatal(err)
	}
	total, _ = repo.Total(ctx)
	if total != 5 {
		t.Errorf("total after Set = %d, want 5", total)
	}
}

func TestUserAndAuthSessionLifecycle(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	user := &models.User{
		Email: "rivera@example.com", PasswordHash: "hash",
		Name: "Ms. Rivera", ClassCode: "RIVERA1",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("generated id not set")
	}

	byEmail, err := repo.GetUserByEmail(ctx, "rivera@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if byEmail.ID != user.ID || byEmail.ClassCode != "RIVERA1" {
		t.Errorf("lookup mismatch: %+v", byEmail)
	}

	session := &models.AuthSession{
		ID: "tok123", UserID: user.ID,
		ExpiresAt: now.Add(24 * time.Hour), CreatedAt: now,
	}
	if err := repo.CreateAuthSession(ctx, session); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetAuthSession(ctx, "tok123")
	if err != nil {
		t.Fatal(err)
	}
	if got.UserID != user.ID {
		t.Errorf("session user = %d, want %d", got.UserID, user.ID)
	}

	if err := repo.DeleteAuthSession(ctx, "tok123"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetAuthSession(ctx, "tok123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted session error = %v, want ErrNotFound", err)
	}
}

func TestStudentsByClassCode(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	user := &models.User{Email: "t@example.com", PasswordHash: "h", Name: "T",
		ClassCode: "CODE1", CreatedAt: now, UpdatedAt: now}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Zoe", "Ana"} {
		s := &models.Student{UserID: user.ID, Name: name, ClassCode: "CODE1", CreatedAt: now}
		if err := repo.CreateStudent(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	students, err := repo.ListStudentsByClassCode(ctx, "CODE1")
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 2 || students[0].Name != "Ana" {
		t.Errorf("students = %+v", students)
	}
}

func TestAssignmentCompletions(t *testing.T) {
	db := openTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	a := &models.Assignment{
		UserID: 1, Name: "Week 10 words",
		Difficulty: models.DifficultyBeginner, SessionSize: 10,
		ClassCode: "CODE1", CreatedAt: now,
	}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("generated id not set")
	}

	c := &models.AssignmentCompletion{
		AssignmentID: a.ID, StudentID: 7, SessionID: "s1",
		AverageAccuracy: 92.5, CompletedWords: 10, CompletedAt: now,
	}
	if err := repo.RecordCompletion(ctx, c); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	completions, err := repo.ListCompletions(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(completions) != 1 || completions[0].AverageAccuracy != 92.5 {
		t.Errorf("completions = %+v", completions)
	}
}
