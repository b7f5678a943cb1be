package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/domain/repositories"
	"docshare/internal/query"
	"docshare/internal/storage"
)

// testLogger discards output so test runs stay quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- user repository fake ---

type fakeUserRepo struct {
	users map[string]*models.User // keyed by row id

	createErr   error
	createCalls int

	// conflictWinner, when set, is inserted at the moment createErr
	// fires, simulating a concurrent request winning the creation race.
	conflictWinner *models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.createCalls++
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		if r.conflictWinner != nil {
			r.users[r.conflictWinner.ID] = r.conflictWinner
		}
		return err
	}
	for _, existing := range r.users {
		if existing.UID == user.UID {
			return fmt.Errorf("user %s: %w", user.UID, domain.ErrConflict)
		}
	}
	user.ID = "user-" + strconv.Itoa(len(r.users)+1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	for _, user := range r.users {
		if user.UID == uid {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user uid %s: %w", uid, domain.ErrNotFound)
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id string, displayName, photoURL *string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if displayName != nil {
		user.DisplayName = *displayName
	}
	if photoURL != nil {
		user.PhotoURL = *photoURL
	}
	copied := *user
	return &copied, nil
}

// --- file repository fake ---

type fakeFileRepo struct {
	files  map[string]*models.File
	nextID int

	lastPlan   query.Plan
	listTotal  int
	createErr  error
	updateErr  error
	deleted    []string
	cascadeErr error
}

func newFakeFileRepo(files ...*models.File) *fakeFileRepo {
	repo := &fakeFileRepo{files: make(map[string]*models.File)}
	for _, f := range files {
		repo.files[f.ID] = f
	}
	return repo
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	file.ID = "file-" + strconv.Itoa(r.nextID)
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	file, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	copied := *file
	return &copied, nil
}

func (r *fakeFileRepo) List(ctx context.Context, plan query.Plan) ([]models.File, int, error) {
	r.lastPlan = plan
	var out []models.File
	for _, file := range r.files {
		out = append(out, *file)
	}
	total := r.listTotal
	if total == 0 {
		total = len(out)
	}
	return out, total, nil
}

func (r *fakeFileRepo) Update(ctx context.Context, file *models.File) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.files[file.ID]; !ok {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id string) (*models.File, error) {
	file, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	delete(r.files, id)
	r.deleted = append(r.deleted, id)
	return file, nil
}

func (r *fakeFileRepo) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	file, ok := r.files[id]
	if !ok {
		return 0, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	file.DownloadCount++
	return file.DownloadCount, nil
}

func (r *fakeFileRepo) ListByCourse(ctx context.Context, courseID string) ([]models.File, error) {
	out := []models.File{}
	for _, file := range r.files {
		if file.CourseID != nil && *file.CourseID == courseID {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) DeleteByCourse(ctx context.Context, courseID string) ([]models.File, error) {
	if r.cascadeErr != nil {
		return nil, r.cascadeErr
	}
	out := []models.File{}
	for id, file := range r.files {
		if file.CourseID != nil && *file.CourseID == courseID {
			out = append(out, *file)
			delete(r.files, id)
			r.deleted = append(r.deleted, id)
		}
	}
	return out, nil
}

// --- course repository fake ---

type fakeCourseRepo struct {
	courses map[string]*models.Course
	nextID  int

	lastPlan  query.Plan
	updateErr error
	deleteErr error
	deleted   []string
}

func newFakeCourseRepo(courses ...*models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: make(map[string]*models.Course)}
	for _, c := range courses {
		repo.courses[c.ID] = c
	}
	return repo
}

func (r *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.nextID++
	course.ID = "course-" + strconv.Itoa(r.nextID)
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	copied := *course
	copied.Enrollments = append([]models.Enrollment{}, course.Enrollments...)
	return &copied, nil
}

func (r *fakeCourseRepo) List(ctx context.Context, plan query.Plan) ([]models.Course, int, error) {
	r.lastPlan = plan
	var out []models.Course
	for _, course := range r.courses {
		out = append(out, *course)
	}
	return out, len(out), nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.courses[course.ID]; !ok {
		return fmt.Errorf("course %s: %w", course.ID, domain.ErrNotFound)
	}
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.courses[id]; !ok {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	delete(r.courses, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// --- object store fake ---

type fakeStore struct {
	uploaded  []string
	removed   []string
	uploadErr error
	removeErr error
}

func (s *fakeStore) Upload(ctx context.Context, objectPath, contentType string, data io.Reader) (*storage.UploadResult, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	if data != nil {
		_, _ = io.Copy(io.Discard, data)
	}
	s.uploaded = append(s.uploaded, objectPath)
	return &storage.UploadResult{
		Path:      objectPath,
		PublicURL: "https://cdn.example.com/" + objectPath,
	}, nil
}

func (s *fakeStore) Remove(ctx context.Context, objectPath string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, objectPath)
	return nil
}

// --- transaction manager fake ---

// fakeTxManager just runs the function; rollback behavior is asserted by
// checking no partial state leaked after an error.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

// --- token verifier fake ---

type fakeVerifier struct {
	claims *models.SupabaseClaims
	err    error
}

func (v *fakeVerifier) VerifyToken(token string) (*models.SupabaseClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func (v *fakeVerifier) Close() error { return nil }

// fileContent builds an upload body for tests.
func fileContent(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}
