package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/filestorage"
)

// store is an in-memory backing for the fake repositories
type store struct {
	mu        sync.Mutex
	nextID    int64
	clock     time.Time
	users     map[int64]*models.User
	lectures  map[int64]*models.Lecture
	tags      map[int64]*models.Tag
	questions map[int64]*models.Question
	qtags     map[int64][]int64
	answers   map[int64]*models.Answer
	images    map[int64]*models.Image
}

func newStore() *store {
	return &store{
		clock:     time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
		users:     map[int64]*models.User{},
		lectures:  map[int64]*models.Lecture{},
		tags:      map[int64]*models.Tag{},
		questions: map[int64]*models.Question{},
		qtags:     map[int64][]int64{},
		answers:   map[int64]*models.Answer{},
		images:    map[int64]*models.Image{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

// fakeUserRepository implements repositories.IUserRepository
type fakeUserRepository struct{ *store }

func (r fakeUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = r.id()
	user.CreatedAt = r.tick()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r fakeUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	copied.PasswordHash = ""
	return &copied, nil
}

func (r fakeUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r fakeUserRepository) UpdateProfile(_ context.Context, userID int64, update models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	switch {
	case update.ClearNickname:
		u.Nickname = nil
	case update.Nickname != nil:
		nick := *update.Nickname
		u.Nickname = &nick
	}
	if update.ShowNickname != nil {
		u.ShowNickname = *update.ShowNickname
	}
	copied := *u
	copied.PasswordHash = ""
	return &copied, nil
}

// fakeLectureRepository implements repositories.ILectureRepository
type fakeLectureRepository struct{ *store }

func (r fakeLectureRepository) Create(_ context.Context, lecture *models.Lecture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[lecture.TeacherID]; !ok {
		return apperrors.ErrUserNotFound
	}
	lecture.ID = r.id()
	lecture.CreatedAt = r.tick()
	stored := *lecture
	r.lectures[lecture.ID] = &stored
	return nil
}

func (r fakeLectureRepository) load(l *models.Lecture) models.Lecture {
	copied := *l
	teacher := *r.users[l.TeacherID]
	copied.Teacher = &teacher
	for _, q := range r.questions {
		if q.LectureID == l.ID {
			copied.QuestionCount++
		}
	}
	return copied
}

func (r fakeLectureRepository) GetByID(_ context.Context, id int64) (*models.Lecture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lectures[id]
	if !ok {
		return nil, apperrors.ErrLectureNotFound
	}
	loaded := r.load(l)
	return &loaded, nil
}

func (r fakeLectureRepository) List(_ context.Context) ([]models.Lecture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lectures := []models.Lecture{}
	for _, l := range r.lectures {
		lectures = append(lectures, r.load(l))
	}
	sort.Slice(lectures, func(i, j int) bool { return lectures[i].CreatedAt.After(lectures[j].CreatedAt) })
	return lectures, nil
}

func (r fakeLectureRepository) LectureExists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.lectures[id]
	return ok, nil
}

func (r fakeLectureRepository) Delete(_ context.Context, id int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lectures[id]; !ok {
		return nil, apperrors.ErrLectureNotFound
	}
	var files []string
	for qid, q := range r.questions {
		if q.LectureID == id {
			files = append(files, r.deleteQuestionLocked(qid)...)
		}
	}
	for tid, t := range r.tags {
		if t.LectureID == id {
			delete(r.tags, tid)
		}
	}
	delete(r.lectures, id)
	sort.Strings(files)
	return files, nil
}

// fakeTagRepository implements repositories.ITagRepository
type fakeTagRepository struct{ *store }

func (r fakeTagRepository) ListByLecture(_ context.Context, lectureID int64) ([]models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := []models.Tag{}
	for _, t := range r.tags {
		if t.LectureID == lectureID {
			tags = append(tags, *t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (r fakeTagRepository) GetOrCreate(_ context.Context, lectureID int64, name string) (*models.Tag, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lectures[lectureID]; !ok {
		return nil, false, apperrors.ErrLectureNotFound
	}
	for _, t := range r.tags {
		if t.LectureID == lectureID && t.Name == name {
			copied := *t
			return &copied, false, nil
		}
	}
	t := &models.Tag{ID: r.id(), Name: name, LectureID: lectureID, CreatedAt: r.tick()}
	r.tags[t.ID] = t
	copied := *t
	return &copied, true, nil
}

func (r fakeTagRepository) GetByIDs(_ context.Context, ids []int64) ([]models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := []models.Tag{}
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			tags = append(tags, *t)
		}
	}
	return tags, nil
}

func (r fakeTagRepository) Delete(_ context.Context, lectureID, tagID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[tagID]
	if !ok || t.LectureID != lectureID {
		return apperrors.ErrTagNotFound
	}
	delete(r.tags, tagID)
	for qid, ids := range r.qtags {
		kept := ids[:0]
		for _, id := range ids {
			if id != tagID {
				kept = append(kept, id)
			}
		}
		r.qtags[qid] = kept
	}
	return nil
}

// fakeQuestionRepository implements repositories.IQuestionRepository
type fakeQuestionRepository struct{ *store }

func (r fakeQuestionRepository) Create(_ context.Context, in models.NewQuestion) (*models.Question, error) {
	r.mu.Lock()
	if _, ok := r.lectures[in.LectureID]; !ok {
		r.mu.Unlock()
		return nil, apperrors.ErrLectureNotFound
	}
	if err := r.checkImagesLocked(in.Images); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	now := r.tick()
	q := &models.Question{
		ID:           r.id(),
		Title:        in.Title,
		Content:      in.Content,
		AuthorID:     in.AuthorID,
		LectureID:    in.LectureID,
		ShowNickname: in.ShowNickname,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.questions[q.ID] = q
	r.qtags[q.ID] = append([]int64(nil), in.TagIDs...)
	for _, img := range in.Images {
		img.ID = r.id()
		img.QuestionID = &q.ID
		r.images[img.ID] = &img
	}
	r.mu.Unlock()
	return r.GetByID(context.Background(), q.ID)
}

func (r fakeQuestionRepository) checkImagesLocked(images []models.Image) error {
	for _, in := range images {
		for _, existing := range r.images {
			if existing.Filename == in.Filename {
				return apperrors.NewConflictError("image is already attached")
			}
		}
	}
	return nil
}

func (r fakeQuestionRepository) loadLocked(q *models.Question) models.Question {
	copied := *q
	author := *r.users[q.AuthorID]
	copied.Author = &author
	copied.Tags = []models.Tag{}
	for _, id := range r.qtags[q.ID] {
		if t, ok := r.tags[id]; ok {
			copied.Tags = append(copied.Tags, *t)
		}
	}
	sort.Slice(copied.Tags, func(i, j int) bool { return copied.Tags[i].Name < copied.Tags[j].Name })
	copied.Images = []models.Image{}
	for _, img := range r.images {
		if img.QuestionID != nil && *img.QuestionID == q.ID {
			copied.Images = append(copied.Images, *img)
		}
	}
	copied.Answers = []models.Answer{}
	for _, a := range r.answers {
		if a.QuestionID == q.ID {
			copied.Answers = append(copied.Answers, r.loadAnswerLocked(a))
		}
	}
	sort.Slice(copied.Answers, func(i, j int) bool { return copied.Answers[i].CreatedAt.Before(copied.Answers[j].CreatedAt) })
	return copied
}

func (r fakeQuestionRepository) GetByID(_ context.Context, id int64) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	loaded := r.loadLocked(q)
	return &loaded, nil
}

func (r fakeQuestionRepository) List(_ context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	questions := []models.Question{}
	for _, q := range r.questions {
		if filter.LectureID != nil && q.LectureID != *filter.LectureID {
			continue
		}
		if filter.Resolved != nil && q.Resolved != *filter.Resolved {
			continue
		}
		questions = append(questions, r.loadLocked(q))
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].CreatedAt.After(questions[j].CreatedAt) })
	return questions, nil
}

func (r fakeQuestionRepository) SetResolved(_ context.Context, id int64, resolved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return apperrors.ErrQuestionNotFound
	}
	q.Resolved = resolved
	q.UpdatedAt = r.tick()
	return nil
}

func (r fakeQuestionRepository) ReplaceTags(_ context.Context, id int64, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return apperrors.ErrQuestionNotFound
	}
	r.qtags[id] = append([]int64(nil), tagIDs...)
	return nil
}

func (r fakeQuestionRepository) Delete(_ context.Context, id int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	files := r.deleteQuestionLocked(id)
	sort.Strings(files)
	return files, nil
}

func (s *store) deleteQuestionLocked(id int64) []string {
	var files []string
	for aid, a := range s.answers {
		if a.QuestionID != id {
			continue
		}
		for iid, img := range s.images {
			if img.AnswerID != nil && *img.AnswerID == aid {
				files = append(files, img.Filename)
				delete(s.images, iid)
			}
		}
		delete(s.answers, aid)
	}
	for iid, img := range s.images {
		if img.QuestionID != nil && *img.QuestionID == id {
			files = append(files, img.Filename)
			delete(s.images, iid)
		}
	}
	delete(s.qtags, id)
	delete(s.questions, id)
	return files
}

func (s *store) loadAnswerLocked(a *models.Answer) models.Answer {
	copied := *a
	author := *s.users[a.AuthorID]
	copied.Author = &author
	copied.Images = []models.Image{}
	for _, img := range s.images {
		if img.AnswerID != nil && *img.AnswerID == a.ID {
			copied.Images = append(copied.Images, *img)
		}
	}
	return copied
}

// fakeAnswerRepository implements repositories.IAnswerRepository
type fakeAnswerRepository struct{ *store }

func (r fakeAnswerRepository) Create(_ context.Context, in models.NewAnswer) (*models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[in.QuestionID]; !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	a := &models.Answer{
		ID:         r.id(),
		Content:    in.Content,
		AuthorID:   in.AuthorID,
		QuestionID: in.QuestionID,
		CreatedAt:  r.tick(),
	}
	r.answers[a.ID] = a
	for _, img := range in.Images {
		img.ID = r.id()
		img.AnswerID = &a.ID
		r.images[img.ID] = &img
	}
	loaded := r.loadAnswerLocked(a)
	return &loaded, nil
}

// fakeStorage implements filestorage.FileStorage in memory
type fakeStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	seq     int
}

func newFakeStorage(names ...string) *fakeStorage {
	s := &fakeStorage{files: map[string][]byte{}}
	for _, n := range names {
		s.files[n] = []byte("x")
	}
	return s
}

func (s *fakeStorage) Save(_ context.Context, r io.Reader, ext string) (*filestorage.FileInfo, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := fmt.Sprintf("file-%d%s", s.seq, ext)
	s.files[name] = buf.Bytes()
	return &filestorage.FileInfo{Filename: name, Path: s.PublicPath(name), Size: n}, nil
}

func (s *fakeStorage) Delete(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, filename)
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *fakeStorage) Exists(filename string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[filename]
	return ok, nil
}

func (s *fakeStorage) PublicPath(filename string) string {
	return "/uploads/" + filename
}

type publishedEvent struct {
	Type       string
	LectureID  int64
	QuestionID int64
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, lectureID, questionID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{eventType, lectureID, questionID})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}
