package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"course-media/internal/domain/entities"
	"course-media/internal/infrastructure/processor"
	"course-media/internal/infrastructure/queue"
)

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[uuid.UUID]*entities.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uuid.UUID]*entities.Course)}
}

func (r *fakeCourseRepo) Create(ctx context.Context, course *entities.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) ActiveChecksums(ctx context.Context) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool, len(r.courses))
	for _, course := range r.courses {
		out[course.VideoChecksum] = true
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    []*entities.Order
	completed map[string]bool // userID|courseID
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{completed: make(map[string]bool)}
}

func orderKey(userID, courseID uuid.UUID) string {
	return userID.String() + "|" + courseID.String()
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders = append(r.orders, order)
	if order.Status == "completed" {
		r.completed[orderKey(order.UserID, order.CourseID)] = true
	}
	return nil
}

func (r *fakeOrderRepo) HasCompletedOrder(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed[orderKey(userID, courseID)], nil
}

type fakeRenditionRepo struct {
	mu        sync.Mutex
	upserted  []*entities.Rendition
	filePaths []string
}

func (r *fakeRenditionRepo) Upsert(ctx context.Context, rendition *entities.Rendition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserted = append(r.upserted, rendition)
	return nil
}

func (r *fakeRenditionRepo) GetByCourseAndTier(ctx context.Context, courseID uuid.UUID, tier string) (*entities.Rendition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rendition := range r.upserted {
		if rendition.CourseID == courseID && rendition.Tier == tier {
			return rendition, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRenditionRepo) DeleteByCourse(ctx context.Context, courseID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filePaths, nil
}

// fakeStorage is a directory-backed strategy that records deletions.
type fakeStorage struct {
	root    string
	mu      sync.Mutex
	deleted []string
}

func newFakeStorage(t *testing.T) *fakeStorage {
	return &fakeStorage{root: t.TempDir()}
}

func (s *fakeStorage) Save(file io.Reader, folder, filename string) (string, error) {
	path := filepath.Join(s.root, folder, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, file); err != nil {
		return "", err
	}
	return path, nil
}

func (s *fakeStorage) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *fakeStorage) Delete(path string) error {
	s.mu.Lock()
	s.deleted = append(s.deleted, path)
	s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *fakeStorage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *fakeStorage) Path(folder, filename string) string {
	return filepath.Join(s.root, folder, filename)
}

func (s *fakeStorage) Materialize(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *fakeStorage) wasDeleted(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.deleted {
		if p == path {
			return true
		}
	}
	return false
}

type fakeProber struct {
	result processor.ProbeResult
}

func (p *fakeProber) Probe(ctx context.Context, path string) processor.ProbeResult {
	return p.result
}

type fakeThumbnailer struct {
	err   error
	calls int
}

func (f *fakeThumbnailer) Extract(ctx context.Context, srcPath, dstPath string, opts processor.ThumbnailOptions) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dstPath, []byte("jpeg"), 0o644)
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (e *fakeEnqueuer) Enqueue(ctx context.Context, job queue.Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	return nil
}

// videoFileHeader builds a real multipart file header backed by in-memory
// content so fileHeader.Open works in tests.
func videoFileHeader(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="video"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("v"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(64 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["video"][0]
}
