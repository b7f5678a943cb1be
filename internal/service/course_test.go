package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docshare/internal/domain"
	"docshare/internal/domain/models"
)

func newCourseService(courseRepo *fakeCourseRepo, fileRepo *fakeFileRepo, userRepo *fakeUserRepo, store *fakeStore, tx *fakeTxManager) *CourseService {
	return NewCourseService(courseRepo, fileRepo, userRepo, store, tx, testLogger())
}

func publishedCourse(id, instructorID string) *models.Course {
	return &models.Course{
		ID:           id,
		Title:        "Linear Algebra",
		Description:  "Vectors and matrices",
		Category:     "math",
		InstructorID: instructorID,
		IsPublished:  true,
		Sections:     []models.Section{},
		Enrollments:  []models.Enrollment{},
	}
}

func courseID(id string) *string { return &id }

func TestCreateCourseRequiresAuth(t *testing.T) {
	svc := newCourseService(newFakeCourseRepo(), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

	_, err := svc.Create(context.Background(), &CreateCourseRequest{Title: "T", Description: "D", Category: "c"}, models.Anonymous)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateCourseValidation(t *testing.T) {
	svc := newCourseService(newFakeCourseRepo(), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})
	instructor := models.Identity{UserID: "u1"}

	tests := []struct {
		name string
		req  CreateCourseRequest
	}{
		{name: "missing title", req: CreateCourseRequest{Description: "d", Category: "c"}},
		{name: "missing description", req: CreateCourseRequest{Title: "t", Category: "c"}},
		{name: "missing category", req: CreateCourseRequest{Title: "t", Description: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req, instructor)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateCourseNormalizesEmptyCollections(t *testing.T) {
	svc := newCourseService(newFakeCourseRepo(), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

	course, err := svc.Create(context.Background(), &CreateCourseRequest{
		Title:       "  Calculus  ",
		Description: "Derivatives",
		Category:    "math",
	}, models.Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if course.Title != "Calculus" {
		t.Errorf("title = %q, want trimmed", course.Title)
	}
	if course.Sections == nil || course.Enrollments == nil {
		t.Error("expected empty slices, not nil")
	}
	if course.InstructorID != "u1" {
		t.Errorf("instructorID = %s, want u1", course.InstructorID)
	}
}

func TestGetCourseMasksUnpublished(t *testing.T) {
	draft := publishedCourse("c1", "owner")
	draft.IsPublished = false

	tests := []struct {
		name    string
		caller  models.Identity
		wantErr error
	}{
		{name: "anonymous", caller: models.Anonymous, wantErr: domain.ErrNotFound},
		{name: "other user", caller: models.Identity{UserID: "intruder"}, wantErr: domain.ErrNotFound},
		{name: "instructor", caller: models.Identity{UserID: "owner"}},
		{name: "admin", caller: models.Identity{UserID: "root", Role: models.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCourseService(newFakeCourseRepo(draft), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

			_, err := svc.Get(context.Background(), "c1", tt.caller)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetCourseAttachesFiles(t *testing.T) {
	course := publishedCourse("c1", "owner")
	attached := &models.File{ID: "f1", Name: "notes.pdf", CourseID: courseID("c1"), Visibility: models.VisibilityPublic, OwnerID: "owner"}
	unrelated := &models.File{ID: "f2", Name: "other.pdf", Visibility: models.VisibilityPublic, OwnerID: "owner"}

	svc := newCourseService(newFakeCourseRepo(course), newFakeFileRepo(attached, unrelated), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

	got, err := svc.Get(context.Background(), "c1", models.Anonymous)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Files) != 1 || got.Files[0].ID != "f1" {
		t.Errorf("files = %+v, want just f1", got.Files)
	}
}

func TestUpdateCoursePermissions(t *testing.T) {
	tests := []struct {
		name    string
		caller  models.Identity
		wantErr error
	}{
		{name: "instructor may update", caller: models.Identity{UserID: "owner"}},
		{name: "other user forbidden", caller: models.Identity{UserID: "intruder"}, wantErr: domain.ErrForbidden},
		{name: "admin forbidden", caller: models.Identity{UserID: "root", Role: models.RoleAdmin}, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCourseService(newFakeCourseRepo(publishedCourse("c1", "owner")), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

			title := "Renamed"
			_, err := svc.Update(context.Background(), "c1", &UpdateCourseRequest{Title: &title}, tt.caller)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDeleteCourseCascadesInOneTransaction(t *testing.T) {
	course := publishedCourse("c1", "owner")
	f1 := &models.File{ID: "f1", CourseID: courseID("c1"), StoragePath: "uploads/f1.pdf", OwnerID: "owner"}
	f2 := &models.File{ID: "f2", CourseID: courseID("c1"), StoragePath: "uploads/f2.pdf", OwnerID: "owner"}
	keep := &models.File{ID: "f3", StoragePath: "uploads/f3.pdf", OwnerID: "owner"}

	courseRepo := newFakeCourseRepo(course)
	fileRepo := newFakeFileRepo(f1, f2, keep)
	store := &fakeStore{}
	tx := &fakeTxManager{}
	svc := newCourseService(courseRepo, fileRepo, newFakeUserRepo(), store, tx)

	if err := svc.Delete(context.Background(), "c1", models.Identity{UserID: "owner"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.calls != 1 {
		t.Errorf("expected one transaction, got %d", tx.calls)
	}
	if len(courseRepo.deleted) != 1 {
		t.Error("expected the course row to be gone")
	}
	if len(fileRepo.deleted) != 2 {
		t.Errorf("expected two cascaded file rows, got %v", fileRepo.deleted)
	}
	if _, ok := fileRepo.files["f3"]; !ok {
		t.Error("file outside the course must survive the cascade")
	}
	if len(store.removed) != 2 {
		t.Errorf("expected two cascaded objects removed, got %v", store.removed)
	}
}

func TestDeleteCourseAbortsWhenCascadeFails(t *testing.T) {
	course := publishedCourse("c1", "owner")
	courseRepo := newFakeCourseRepo(course)
	fileRepo := newFakeFileRepo()
	fileRepo.cascadeErr = errors.New("deadlock detected")
	store := &fakeStore{}

	svc := newCourseService(courseRepo, fileRepo, newFakeUserRepo(), store, &fakeTxManager{})

	if err := svc.Delete(context.Background(), "c1", models.Identity{UserID: "owner"}); err == nil {
		t.Fatal("expected the cascade error to surface")
	}
	if len(courseRepo.deleted) != 0 {
		t.Error("course row must survive an aborted cascade")
	}
	if len(store.removed) != 0 {
		t.Error("no storage objects may be removed on abort")
	}
}

func TestDeleteCoursePermissions(t *testing.T) {
	tests := []struct {
		name    string
		caller  models.Identity
		wantErr error
	}{
		{name: "instructor may delete", caller: models.Identity{UserID: "owner"}},
		{name: "admin may delete", caller: models.Identity{UserID: "root", Role: models.RoleAdmin}},
		{name: "other user forbidden", caller: models.Identity{UserID: "intruder"}, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCourseService(newFakeCourseRepo(publishedCourse("c1", "owner")), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

			err := svc.Delete(context.Background(), "c1", tt.caller)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	courseRepo := newFakeCourseRepo(publishedCourse("c1", "owner"))
	svc := newCourseService(courseRepo, newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})
	caller := models.Identity{UserID: "student"}

	first, err := svc.Enroll(context.Background(), "c1", caller)
	if err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	if len(first.Enrollments) != 1 || first.Enrollments[0].UserID != "student" {
		t.Fatalf("enrollments = %+v", first.Enrollments)
	}
	if first.Enrollments[0].Progress != 0 {
		t.Errorf("initial progress = %d, want 0", first.Enrollments[0].Progress)
	}

	second, err := svc.Enroll(context.Background(), "c1", caller)
	if err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	if len(second.Enrollments) != 1 {
		t.Errorf("repeat enroll duplicated the entry: %+v", second.Enrollments)
	}
}

func TestEnrollMasksUnreadableCourse(t *testing.T) {
	draft := publishedCourse("c1", "owner")
	draft.IsPublished = false
	svc := newCourseService(newFakeCourseRepo(draft), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

	_, err := svc.Enroll(context.Background(), "c1", models.Identity{UserID: "student"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		enrolled bool
		wantErr  error
	}{
		{name: "valid progress", progress: 60, enrolled: true},
		{name: "zero progress", progress: 0, enrolled: true},
		{name: "complete", progress: 100, enrolled: true},
		{name: "negative rejected", progress: -1, enrolled: true, wantErr: domain.ErrValidation},
		{name: "over 100 rejected", progress: 101, enrolled: true, wantErr: domain.ErrValidation},
		{name: "not enrolled rejected", progress: 50, enrolled: false, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := publishedCourse("c1", "owner")
			if tt.enrolled {
				course.Enrollments = []models.Enrollment{{UserID: "student"}}
			}
			svc := newCourseService(newFakeCourseRepo(course), newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

			got, err := svc.UpdateProgress(context.Background(), "c1", models.Identity{UserID: "student"}, tt.progress)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Enrollments[0].Progress != tt.progress {
				t.Errorf("progress = %d, want %d", got.Enrollments[0].Progress, tt.progress)
			}
		})
	}
}

func TestListCoursesUsesPublishScope(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := newCourseService(repo, newFakeFileRepo(), newFakeUserRepo(), &fakeStore{}, &fakeTxManager{})

	_, err := svc.List(context.Background(), models.ListOptions{Category: "math"}, models.Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	where := repo.lastPlan.WhereClause()
	if !strings.Contains(where, "is_published = TRUE") {
		t.Errorf("plan missing publish predicate: %q", where)
	}
	if !strings.Contains(where, "category =") {
		t.Errorf("plan missing category filter: %q", where)
	}
}
